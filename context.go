package modeladaptor

// TemplateContext is the state a rendering engine hands to Value.
type TemplateContext struct {
	// Model is the root the expression is resolved against, usually a *ScopedMap.
	Model        any
	ErrorHandler ErrorHandler
}

// Processor values compute their rendered value from the template context.
type Processor interface {
	Eval(ctx *TemplateContext) any
}

// Callable values are invoked to produce the value to render.
type Callable interface {
	Call() (any, error)
}

// Value resolves segments against ctx.Model and evaluates the result when it is
// executable. A Processor takes precedence over a Callable. A failing Callable
// leaves the callable itself as the value.
func (a *Adaptor) Value(ctx *TemplateContext, token Token, segments []string) any {
	value := a.Resolve(ctx.Model, segments, ctx.ErrorHandler, token)
	switch t := value.(type) {
	case Processor:
		return t.Eval(ctx)
	case Callable:
		r, err := t.Call()
		if err == nil {
			return r
		}
		a.log.With(map[string]any{"error": err}).Debugf("callable failed")
	case func() (any, error):
		r, err := t()
		if err == nil {
			return r
		}
		a.log.With(map[string]any{"error": err}).Debugf("callable failed")
	case func() any:
		return t()
	}
	return value
}
