package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-gateway/internal/domain/theme"
)

// GetTheme returns the current display mode.
func (h *Handler) GetTheme(w http.ResponseWriter, _ *http.Request) {
	writeThemeMode(w, h.theme.Mode())
}

// SetTheme stores exactly the given mode. Modes outside {light, dark} are
// rejected with 400.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := decodeModeBody(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := h.theme.Set(mode)
	if err != nil {
		if errors.Is(err, theme.ErrInvalidMode) {
			writeError(w, http.StatusBadRequest, `mode must be "light" or "dark"`)
			return
		}
		zctx.From(r.Context()).Error("persist theme failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not persist theme")
		return
	}
	writeThemeMode(w, set)
}

// ToggleTheme flips between light and dark.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := h.theme.Toggle()
	if err != nil {
		zctx.From(r.Context()).Error("persist theme failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not persist theme")
		return
	}
	writeThemeMode(w, mode)
}

func writeThemeMode(w http.ResponseWriter, mode theme.Mode) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("mode")
	e.Str(string(mode))
	e.ObjEnd()
	writeJSON(w, http.StatusOK, e)
}

func decodeModeBody(body io.Reader) (theme.Mode, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}

	var mode string
	seen := false
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "mode" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		mode, seen = v, true
		return nil
	}); err != nil {
		return "", errors.New("body must be a JSON object with a string mode")
	}
	if !seen {
		return "", errors.New("mode is required")
	}
	return theme.Mode(mode), nil
}
