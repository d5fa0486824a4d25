package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/valreport/internal/ui/pretty"
	"github.com/yaklabco/valreport/pkg/config"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.Bold.Render(text))
	assert.Equal(t, text, styles.Error.Render(text))
	assert.Equal(t, text, styles.Severity(config.SeverityWarning).Render(text))
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	for _, level := range config.Severities() {
		assert.NotEmpty(t, styles.Severity(level).Render("x"))
	}
	assert.NotEmpty(t, styles.Valid.Render("x"))
	assert.NotEmpty(t, styles.Invalid.Render("x"))
	assert.NotEmpty(t, styles.TableTitle.Render("x"))
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "a buffer is not a terminal")
	assert.False(t, pretty.IsColorEnabled("", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout))
}
