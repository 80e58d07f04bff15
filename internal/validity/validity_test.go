package validity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AngelCh415/growth-report/internal/models"
)

func TestClassifyGoogleShortCircuits(t *testing.T) {
	calls := 0
	c := NewClassifier("", FormRuleFunc(func(models.UserRecord) bool { calls++; return false }))

	assert.Equal(t, Google, c.Classify(models.UserRecord{Value: "  UserCadastroGoogle "}))
	assert.Equal(t, 0, calls)
	assert.Equal(t, FormInvalid, c.Classify(models.UserRecord{Value: "usercadastrogoogle"}))
	assert.Equal(t, 1, calls)
}

func TestClassifyExhaustive(t *testing.T) {
	c := NewClassifier("G", FormRuleFunc(func(u models.UserRecord) bool { return u.Username == "ok" }))
	cases := []struct {
		u    models.UserRecord
		want Class
	}{
		{models.UserRecord{Value: "G", Username: "ok"}, Google},
		{models.UserRecord{Value: "G"}, Google},
		{models.UserRecord{Username: "ok"}, FormValid},
		{models.UserRecord{}, FormInvalid},
	}
	for _, tc := range cases {
		got := c.Classify(tc.u)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, got != FormInvalid, c.IsValid(tc.u))
	}
}

func TestDefaultFormRule(t *testing.T) {
	r := NewFormRule()
	assert.True(t, r.Valid(models.UserRecord{Username: "ana@empresa.com.br", Profession: "Arquiteto"}))
	assert.False(t, r.Valid(models.UserRecord{Username: "ana", Profession: "Arquiteto"}))
	assert.False(t, r.Valid(models.UserRecord{Username: "ana@empresa.com.br"}))
	assert.False(t, r.Valid(models.UserRecord{Username: "ana@empresa.com.br", Profession: "-"}))
}
