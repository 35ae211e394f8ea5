package funcs

import (
	"strings"
	"text/template"
	"time"
)

var TemplateFuncs = template.FuncMap{
	"now":       time.Now,
	"datetime":  datetime,
	"uppercase": strings.ToUpper,
	"lowercase": strings.ToLower,
}

func datetime(format string, t time.Time) string {
	return t.Format(format)
}
