package http

import (
	"html/template"
	"net/http"
)

var errorPage = template.Must(template.New("error").Parse(`<html>
<head><title>{{.Code}} {{.Status}}</title></head>
<body>
<center><h1>{{.Code}} {{.Status}}</h1></center>
<center>{{.Message}}</center>
<hr><center>galleria</center>
</body>
</html>`))

func writeErrorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = errorPage.Execute(w, struct {
		Code    int
		Status  string
		Message string
	}{code, http.StatusText(code), message})
}
