package server

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/jrsteele09/sop-console/internal/errors"
	"github.com/rs/zerolog/log"
)

//go:embed static/*
var staticFiles embed.FS

var consoleAssets = sync.OnceValue(func() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return sub
})

// assetContentType prefers the extension and falls back to sniffing. Text
// assets always declare utf-8 since the pages carry Vietnamese labels.
func assetContentType(name string, data []byte) string {
	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	return ctype
}

// readAsset loads one of the console's own stylesheets or scripts. Only the
// css and js directories are served.
func readAsset(dir, file string) ([]byte, error) {
	if file == "" || strings.ContainsAny(file, `/\`) || strings.HasPrefix(file, ".") {
		return nil, errors.ErrNotFound
	}
	data, err := fs.ReadFile(consoleAssets(), path.Join(dir, file))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "[server.readAsset] %s/%s: %v", dir, file, err)
	}
	return data, nil
}

// AssetHandler serves /{dir}/{file} from the embedded static tree.
func (s *Server) AssetHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		data, err := readAsset(dir, file)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("asset not found")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", assetContentType(file, data))
		if _, err := w.Write(data); err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("asset write failed")
		}
	}
}
