package tree

import (
	"errors"
	"testing"

	"github.com/nihei9/atnc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(text string, children ...*ast.Node) *ast.Node {
	return ast.New(ast.KindID, text, children...)
}

func kindsOf(s *NodeStream) []ast.Kind {
	var ks []ast.Kind
	for i := 0; i < s.Size(); i++ {
		ks = append(ks, s.LA(1))
		s.Consume()
	}
	return ks
}

func TestNodeStream_Flatten(t *testing.T) {
	nilRoot := ast.Nil()
	nilRoot.AddChild(id("x"))
	nilRoot.AddChild(id("y", id("z")))

	tests := []struct {
		caption string
		root    *ast.Node
		str     string
	}{
		{
			caption: "a single node has no navigation nodes",
			root:    id("a"),
			str:     "a",
		},
		{
			caption: "children are enclosed in DOWN and UP",
			root:    id("a", id("b", id("c"), id("d")), id("e")),
			str:     "a DOWN b DOWN c d UP e UP",
		},
		{
			caption: "a nil root contributes its children only",
			root:    nilRoot,
			str:     "x y DOWN z UP",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s := NewNodeStream(tt.root)
			assert.Equal(t, tt.str, s.String(0, s.Size()-1))

			down, up := 0, 0
			for _, k := range kindsOf(s) {
				switch k {
				case ast.KindDown:
					down++
				case ast.KindUp:
					up++
				}
			}
			assert.Equal(t, down, up)
			assert.Equal(t, ast.KindEOF, s.LA(1))
		})
	}
}

func TestNodeStream_Lookahead(t *testing.T) {
	s := NewNodeStream(id("a", id("b"), id("c")))

	assert.Equal(t, "a", s.LT(1).Text)
	assert.Equal(t, ast.KindDown, s.LA(2))
	assert.Equal(t, "b", s.LT(3).Text)
	assert.Equal(t, ast.KindEOF, s.LA(-1))
	assert.Nil(t, s.LT(0))

	s.Consume()
	s.Consume()
	assert.Equal(t, "b", s.LT(1).Text)
	assert.Equal(t, ast.KindDown, s.LA(-1))
	assert.Equal(t, "a", s.LT(-2).Text)

	for i := 0; i < 10; i++ {
		s.Consume()
	}
	assert.Equal(t, s.Size(), s.Index())
	assert.Equal(t, ast.KindEOF, s.LA(1))
	assert.Equal(t, ast.KindEOF, s.LA(3))
}

func TestNodeStream_Markers(t *testing.T) {
	s := NewNodeStream(id("a", id("b"), id("c")))

	m1 := s.Mark()
	s.Consume()
	s.Consume()
	m2 := s.Mark()
	s.Consume()
	assert.Equal(t, 3, s.Index())

	s.Rewind(m2)
	assert.Equal(t, 2, s.Index())

	s.Consume()
	s.Rewind(m1)
	assert.Equal(t, 0, s.Index())

	err := catchFatal(func() {
		s.Rewind(m1)
	})
	assert.ErrorIs(t, err, ErrStaleMarker)

	m1 = s.Mark()
	m2 = s.Mark()
	s.Release(m1)
	err = catchFatal(func() {
		s.Rewind(m2)
	})
	assert.ErrorIs(t, err, ErrStaleMarker)
}

func TestNodeStream_Seek(t *testing.T) {
	s := NewNodeStream(id("a", id("b")))

	s.Seek(s.Size())
	assert.Equal(t, ast.KindEOF, s.LA(1))
	s.Seek(2)
	assert.Equal(t, "b", s.LT(1).Text)

	for _, i := range []int{-1, s.Size() + 1} {
		err := catchFatal(func() {
			s.Seek(i)
		})
		assert.ErrorIs(t, err, ErrInvalidSeek)
	}

	s.Mark()
	s.Reset()
	assert.Equal(t, 0, s.Index())
	err := catchFatal(func() {
		s.Rewind(Marker(1))
	})
	assert.ErrorIs(t, err, ErrStaleMarker)
}

func TestNodeStream_SkipSubtree(t *testing.T) {
	s := NewNodeStream(id("a", id("b", id("c", id("d"))), id("e")))

	s.Consume()
	s.Consume()
	s.SkipSubtree()
	assert.Equal(t, "e", s.LT(1).Text)
	s.SkipSubtree()
	assert.Equal(t, ast.KindUp, s.LA(1))
	s.SkipSubtree()
	assert.Equal(t, ast.KindUp, s.LA(1))

	s.Reset()
	s.SkipSubtree()
	assert.Equal(t, ast.KindEOF, s.LA(1))
}

func TestNodeStream_ReplaceChildren(t *testing.T) {
	root := id("a", id("b"), id("c"), id("d"))
	s := NewNodeStream(root)

	s.ReplaceChildren(root, 0, 1, id("x"))
	assert.Equal(t, "(a x d)", root.StringTree())
	assert.Equal(t, "a DOWN b c d UP", s.String(0, s.Size()-1))
	assert.Equal(t, "a DOWN x d UP", NewNodeStream(root).String(0, 4))
}

func catchFatal(fn func()) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		var fatal *FatalError
		e, ok := v.(error)
		if !ok || !errors.As(e, &fatal) {
			panic(v)
		}
		err = e
	}()
	fn()
	return nil
}

func TestRecover(t *testing.T) {
	run := func(fn func()) (err error) {
		defer Recover(&err)
		fn()
		return nil
	}

	err := run(func() {
		raiseFatal(ErrNoInput, "")
	})
	require.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, "fatal: walker has no input stream", err.Error())

	assert.Panics(t, func() {
		_ = run(func() {
			panic("not an error")
		})
	})
}
