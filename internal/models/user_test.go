package models_test

import (
	"reflect"
	"testing"

	"videomatch/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Name:      "Ada",
		Age:       25,
		Gender:    "female",
		Interests: pq.StringArray{"music", "travel", "coding"},
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook keeps a stable id chosen by the caller.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Name: "Bo", Age: 30, Gender: "male"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID, "BeforeCreate should preserve existing ID")
}

func TestUserBeforeCreate_MultipleUsers(t *testing.T) {
	users := []*models.User{
		{Name: "a", Age: 20, Gender: "female"},
		{Name: "b", Age: 22, Gender: "male"},
		{Name: "c", Age: 24, Gender: "other"},
	}

	generated := make(map[string]bool)
	for _, user := range users {
		assert.NoError(t, user.BeforeCreate(nil))
		assert.NotContains(t, generated, user.ID, "Each user should have a unique ID")
		generated[user.ID] = true
	}
	assert.Len(t, generated, len(users))
}

// TestUserStructTags catches accidental tag removal during refactoring.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")
	assert.Equal(t, "id", idField.Tag.Get("json"))

	for _, name := range []string{"Interests", "PersonalityTags"} {
		field, found := userType.FieldByName(name)
		assert.True(t, found, name)
		assert.Contains(t, field.Tag.Get("gorm"), "type:text[]", "%s should use a PostgreSQL array column", name)
	}
}

func TestUserProfileRoundTrip(t *testing.T) {
	in := models.Profile{
		Name:            "Kai",
		Age:             27,
		Gender:          "non-binary",
		Interests:       []string{"reading", "hiking"},
		PersonalityTags: []string{"curious"},
		Bio:             "hello",
		Country:         "NZ",
		Flag:            "🇳🇿",
		Mode:            "dating",
	}

	var user models.User
	user.ApplyProfile(in)

	assert.Equal(t, in, user.Profile())
}

func TestUserProfile_NilInterests(t *testing.T) {
	user := models.User{Name: "Nil", Age: 35, Gender: "male"}

	p := user.Profile()

	assert.Empty(t, p.Interests)
	assert.Equal(t, "Nil", p.Name)
}

func BenchmarkUserBeforeCreate(b *testing.B) {
	user := &models.User{Name: "bench", Age: 25, Gender: "female"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user.ID = ""
		_ = user.BeforeCreate(nil)
	}
}
