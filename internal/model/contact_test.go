package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeField(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		incoming string
		want     string
	}{
		{"empty incoming keeps stored", "Acme Corp", "", "Acme Corp"},
		{"longer stored wins", "Jonathan Smith", "Jon", "Jonathan Smith"},
		{"longer incoming wins", "Jon", "Jonathan Smith", "Jonathan Smith"},
		{"equal length takes incoming", "old", "new", "new"},
		{"empty stored takes incoming", "", "Jon", "Jon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeField(tt.stored, tt.incoming))
		})
	}
}

func TestContactDataMergeInto(t *testing.T) {
	u := User{
		FullName: "Jonathan Smith",
		Company:  "",
		JobRole:  "VP",
		Phone:    "555-0100",
	}

	contact := ContactData{
		FullName: "Jon",
		Email:    "jon@example.com",
		Company:  "Acme Corp",
		Role:     "VP of Engineering",
		Phone:    "",
	}
	contact.MergeInto(&u)

	assert.Equal(t, "Jonathan Smith", u.FullName, "shorter incoming name must not clobber")
	assert.Equal(t, "Acme Corp", u.Company)
	assert.Equal(t, "VP of Engineering", u.JobRole)
	assert.Equal(t, "555-0100", u.Phone, "empty incoming phone must not clobber")
}
