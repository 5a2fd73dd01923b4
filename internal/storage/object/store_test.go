package object

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyShape(t *testing.T) {
	key := NewKey("graph TD\n  A --> B")
	assert.Regexp(t, regexp.MustCompile(`^diagrams/\d{8}_\d{6}_[0-9a-f]{12}\.mmd$`), key)
}

func TestNewKeyVariesWithContent(t *testing.T) {
	a := NewKey("graph TD\n  A --> B")
	b := NewKey("graph TD\n  A --> C")
	assert.NotEqual(t, a, b)
}
