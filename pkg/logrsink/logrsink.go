// Package logrsink reports model resolution errors through a logr.Logger.
package logrsink

import (
	"github.com/go-logr/logr"

	"github.com/speakeasy-api/modeladaptor"
)

const message = "model resolution error"

// Handler is a modeladaptor.ErrorHandler writing each report as one structured
// log record.
type Handler struct {
	logger     logr.Logger
	errorKinds map[modeladaptor.ErrorKind]struct{}
}

// New returns a handler logging to logger. Reports of the given errorKinds are
// logged with logger.Error, all others with logger.Info.
func New(logger logr.Logger, errorKinds ...modeladaptor.ErrorKind) *Handler {
	h := &Handler{
		logger:     logger,
		errorKinds: make(map[modeladaptor.ErrorKind]struct{}, len(errorKinds)),
	}
	for _, k := range errorKinds {
		h.errorKinds[k] = struct{}{}
	}
	return h
}

// Error logs the report. The context entries become key/value pairs after
// "kind" and "token".
func (h *Handler) Error(kind modeladaptor.ErrorKind, token modeladaptor.Token, ctx modeladaptor.Context) {
	kv := make([]any, 0, 4+2*len(ctx))
	kv = append(kv, "kind", string(kind))
	if token != nil {
		kv = append(kv, "token", token)
	}
	for _, e := range ctx {
		kv = append(kv, e.Key, e.Value)
	}

	if _, ok := h.errorKinds[kind]; ok {
		h.logger.Error(modeladaptor.ErrorReport{Kind: kind, Token: token, Context: ctx}, message, kv...)
		return
	}
	h.logger.Info(message, kv...)
}

var _ modeladaptor.ErrorHandler = (*Handler)(nil)
