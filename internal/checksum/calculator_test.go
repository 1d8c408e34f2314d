package checksum

import (
	"strings"
	"testing"
)

func TestCalculateRaw_DiffersOnAnyChange(t *testing.T) {
	c := New()
	a := c.CalculateRaw([]byte(`<manifest package="com.example" />`))
	b := c.CalculateRaw([]byte(`<manifest  package="com.example" />`))
	if a == b {
		t.Error("raw checksums equal for different bytes")
	}
	if len(a) != 64 || strings.ToLower(a) != a {
		t.Errorf("checksum %q is not lowercase hex sha256", a)
	}
}

func TestCalculateNormalized_IgnoresFormatting(t *testing.T) {
	c := New()
	a := c.CalculateNormalized([]byte(`<manifest package="com.example">
    <application />
</manifest>`))
	b := c.CalculateNormalized([]byte(`<manifest   package="com.example"> <application /> </manifest>`))
	if a != b {
		t.Error("normalized checksums differ for whitespace-only changes")
	}
}

func TestCalculateNormalized_IgnoresComments(t *testing.T) {
	c := New()
	a := c.CalculateNormalized([]byte(`<manifest><!-- generated --><application /></manifest>`))
	b := c.CalculateNormalized([]byte(`<manifest> <application /></manifest>`))
	if a != b {
		t.Error("normalized checksums differ when only comments change")
	}
}

func TestCalculateNormalized_PreservesCase(t *testing.T) {
	c := New()
	a := c.CalculateNormalized([]byte(`<application android:name=".Main" />`))
	b := c.CalculateNormalized([]byte(`<application android:name=".main" />`))
	if a == b {
		t.Error("normalized checksum is case-insensitive, attribute values must stay significant")
	}
}

func TestCalculateNormalized_UnterminatedComment(t *testing.T) {
	c := New()
	// Must not panic or hang; everything after the opener is dropped.
	_ = c.CalculateNormalized([]byte(`<manifest><!-- unterminated`))
}
