package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodMapping_Identities(t *testing.T) {
	m := NewMethodMapping("com/example/Foo", "bar", "(ILjava/lang/String;)V")

	assert.Equal(t, "com/example/Foo/bar(ILjava/lang/String;)V", m.FullID())
	assert.Equal(t, "bar(ILjava/lang/String;)V", m.ShortID())
	assert.Equal(t, "com/example/Foo", m.Owner())
}

func TestMemberRename_KeepsIdentity(t *testing.T) {
	m := NewMethodMapping("com/example/Foo", "bar", "()V")
	m.SetObfName("a")

	assert.True(t, m.IsObfuscated())
	assert.Equal(t, "com/example/Foo/bar()V", m.FullID())
	assert.Equal(t, "com/example/Foo/bar()V -> a", m.String())

	m.ClearObfName()
	assert.False(t, m.IsObfuscated())
	assert.Equal(t, "com/example/Foo/bar()V", m.String())

	f := NewFieldMapping("com/example/Foo", "count", "I")
	f.SetObfName("b")
	obf, ok := f.ObfName()
	assert.True(t, ok)
	assert.Equal(t, "b", obf)
	assert.Equal(t, "count", f.Name())
	assert.Equal(t, "com/example/Foo/count -> b", f.String())

	f.SetObfName("count")
	assert.False(t, f.IsObfuscated(), "a name equal to the member name is not a rename")
	assert.Equal(t, "com/example/Foo/count", f.String())
}

func TestMember_Preserved(t *testing.T) {
	f := NewFieldMapping("com/example/Foo", "count", "I")
	assert.False(t, f.Preserved())
	f.SetPreserved(true)
	assert.True(t, f.Preserved())
}

func TestMember_Validate(t *testing.T) {
	assert.NoError(t, NewFieldMapping("a/B", "x", "").Validate())
	assert.Error(t, NewFieldMapping("", "x", "I").Validate())
	assert.Error(t, NewFieldMapping("a/B", "", "I").Validate())

	assert.NoError(t, NewMethodMapping("a/B", "run", "()V").Validate())
	assert.Error(t, NewMethodMapping("a/B", "run", "").Validate())
	assert.Error(t, NewMethodMapping("a/B", "", "()V").Validate())
}

func TestMemberKind_String(t *testing.T) {
	assert.Equal(t, "field", KindField.String())
	assert.Equal(t, "method", KindMethod.String())
	assert.Equal(t, "unknown", MemberKind(7).String())
}
