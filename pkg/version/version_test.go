package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/containers/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String()

	assert.Contains(t, s, version.Commit)
	assert.Contains(t, s, version.Date)
	assert.NotEmpty(t, version.Resolved())
}
