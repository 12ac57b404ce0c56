package modeladaptor

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

type address struct {
	City string
	Zip  string
}

type person struct {
	Name    string
	Age     int
	Home    *address
	Tags    []string
	private string
}

func (p person) GetFirstName() string { return strings.Fields(p.Name)[0] }
func (p person) IsAdult() bool        { return p.Age >= 18 }
func (p person) Initials() string     { return p.Name[:1] }
func (p person) GetBroken() (string, error) {
	return "", errors.New("broken getter")
}
func (p person) GetPanics() string    { panic("boom") }
func (p person) GetArg(x int) string  { return fmt.Sprint(x) }
func (p *person) GetPointerOnly() int { return 7 }

// shadowed has both a getter and a field for the same property.
type shadowed struct {
	Value string
}

func (s shadowed) GetValue() string { return "getter:" + s.Value }

type base struct {
	ID string
}

type derived struct {
	base
	Label string
}

type status int

func (s status) String() string { return [...]string{"open", "closed"}[s] }

type processor struct{ out string }

func (p processor) Eval(ctx *TemplateContext) any { return p.out }

type callable struct {
	v   any
	err error
}

func (c callable) Call() (any, error) { return c.v, c.err }

type intList []int

type fixedSeq struct{ items []string }

func (s fixedSeq) Len() int      { return len(s.items) }
func (s fixedSeq) At(i int) any  { return s.items[i] }
func (s fixedSeq) GetFirst() any { return s.items[0] }

// intMapping is a Mapping whose keys never match a string directly.
type intMapping map[int]any

func (m intMapping) Len() int                      { return len(m) }
func (m intMapping) Lookup(key string) (any, bool) { return nil, false }
func (m intMapping) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for k, v := range m {
			if !yield(k, v) {
				return
			}
		}
	}
}
