package bizerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	notFound := New(KindNotFound, "missing")

	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "直接返回", err: notFound, want: KindNotFound},
		{name: "包装后仍可识别", err: fmt.Errorf("load: %w", notFound), want: KindNotFound},
		{name: "普通错误", err: errors.New("boom"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestIs(t *testing.T) {
	err := New(KindConflict, "dup")
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindForbidden))
	assert.False(t, Is(errors.New("x"), KindUnknown))
	assert.Equal(t, "conflict", KindConflict.String())
}
