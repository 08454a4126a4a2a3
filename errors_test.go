package revcache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatal(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Fatal(nil))
	})

	t.Run("message is preserved", func(t *testing.T) {
		err := Fatal(errors.New("upstream broke"))
		assert.Equal(t, "upstream broke", err.Error())
	})

	t.Run("wrapped error stays reachable", func(t *testing.T) {
		original := errors.New("upstream broke")
		err := Fatal(original)

		assert.ErrorIs(t, err, original)

		var fe *FatalError
		require.ErrorAs(t, err, &fe)
		assert.Same(t, original, fe.Original())
		assert.Same(t, original, fe.Unwrap())
	})

	t.Run("detected through further wrapping", func(t *testing.T) {
		original := errors.New("upstream broke")
		err := fmt.Errorf("calling service: %w", Fatal(original))

		assert.True(t, IsFatal(err))
		assert.ErrorIs(t, err, original)
	})

	t.Run("ordinary errors are not fatal", func(t *testing.T) {
		assert.False(t, IsFatal(errors.New("plain")))
		assert.False(t, IsFatal(nil))
	})
}
