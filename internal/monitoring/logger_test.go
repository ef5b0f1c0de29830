package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	var got []string
	restore := SetLogger(func(format string, args ...any) {
		got = append(got, fmt.Sprintf(format, args...))
	})
	Logf("format: %s", "warning")
	assert.Equal(t, []string{"format: warning"}, got)

	restoreMuted := SetLogger(nil)
	Logf("dropped")
	assert.Len(t, got, 1)

	restoreMuted()
	Logf("vessel: %d", 2)
	assert.Equal(t, []string{"format: warning", "vessel: 2"}, got)

	restore()
}
