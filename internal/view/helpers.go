package view

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"pixelgram/internal/model"
)

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"imageURL": ImageURL,
	"nl2br":    Nl2br,
	"datetime": func(t time.Time) string { return t.Format(time.RFC3339) },
}

// ImageURL maps a post's stored mime type to its image route.
func ImageURL(p model.Post) string {
	ext := ""
	switch p.Mime {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	}
	return fmt.Sprintf("/image/%d%s", p.ID, ext)
}

var paragraphRe = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)

// Nl2br renders user text as paragraph/line-break markup.  The input is
// escaped first, so the returned HTML carries no user-controlled tags.
func Nl2br(s string) template.HTML {
	paragraphs := paragraphRe.Split(template.HTMLEscapeString(s), -1)
	for i, p := range paragraphs {
		paragraphs[i] = "<p>" + strings.ReplaceAll(p, "\n", "<br>\n") + "</p>"
	}
	return template.HTML(strings.Join(paragraphs, "\n\n"))
}
