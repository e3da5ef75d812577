package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RamezHany/Edit/internal/dto"
	"github.com/RamezHany/Edit/pkg/validator"
)

func validRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyName: "acme",
		EventName:   "Summer Fest",
		Name:        "Sara Ali",
		Phone:       "01012345678",
		Email:       "sara@example.com",
		Gender:      "female",
		College:     "Engineering",
		Status:      "student",
		NationalID:  "29801010101234",
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	assert.NoError(t, validator.Validate(context.Background(), validRequest()))
}

func TestValidate_Email(t *testing.T) {
	cases := map[string]bool{
		"sara@example.com":   true,
		"a@b.co":             true,
		"not-an-email":       false,
		"missing-tld@domain": false,
		"@example.com":       false,
		"sara@":              false,
		"sa ra@example.com":  false,
	}
	for email, ok := range cases {
		req := validRequest()
		req.Email = email
		err := validator.Validate(context.Background(), req)
		if ok {
			assert.NoError(t, err, email)
		} else {
			assert.Error(t, err, email)
		}
	}
}

func TestValidate_Phone(t *testing.T) {
	cases := map[string]bool{
		"0101234567":       true, // 10 digits
		"01012345678":      true, // 11 digits
		"010123456789012":  true, // 15 digits
		"12345":            false,
		"0101234567890123": false, // 16 digits
		"01012-345678":     false,
		"":                 false,
	}
	for phone, ok := range cases {
		req := validRequest()
		req.Phone = phone
		err := validator.Validate(context.Background(), req)
		if ok {
			assert.NoError(t, err, phone)
		} else {
			assert.Error(t, err, phone)
		}
	}
}

func TestValidate_Enums(t *testing.T) {
	req := validRequest()
	req.Gender = "other"
	assert.Error(t, validator.Validate(context.Background(), req))

	req = validRequest()
	req.Status = "employed"
	assert.Error(t, validator.Validate(context.Background(), req))

	req = validRequest()
	req.Gender = "male"
	req.Status = "graduate"
	assert.NoError(t, validator.Validate(context.Background(), req))
}

func TestValidate_RequiredFields(t *testing.T) {
	req := validRequest()
	req.College = ""
	assert.Error(t, validator.Validate(context.Background(), req))
}
