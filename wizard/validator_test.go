package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_NonBlockingStepsAlwaysPass(t *testing.T) {
	drafts := []Draft{
		{},
		NewDraft(),
		{Title: "   ", PriceLocal: "-5", YearBuilt: "abc", CommissionPercentage: "900"},
	}

	for _, d := range drafts {
		for _, step := range []Step{StepCharacteristics, StepLocation, StepAmenities, StepCollaboration, StepMedia} {
			assert.Empty(t, Validate(step, d), "step %s should never block", step)
		}
	}
}

func TestValidate_BasicInfo(t *testing.T) {
	cases := []struct {
		title   string
		wantErr bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"Casa en Playa del Carmen", false},
		{"  Depto  ", false},
	}

	for _, tc := range cases {
		errs := Validate(StepBasicInfo, Draft{Title: tc.title})
		if tc.wantErr {
			assert.Equal(t, map[string]string{"title": MsgTitleRequired}, errs, "title %q", tc.title)
		} else {
			assert.Empty(t, errs, "title %q", tc.title)
		}
	}
}

func TestValidate_Pricing(t *testing.T) {
	cases := []struct {
		price   string
		wantErr bool
	}{
		{"", true},
		{"abc", true},
		{"0", true},
		{"-100", true},
		{"NaN", true},
		{"Inf", true},
		{"0.01", false},
		{"100", false},
		{" 2500000 ", false},
	}

	for _, tc := range cases {
		errs := Validate(StepPricing, Draft{PriceLocal: tc.price})
		if tc.wantErr {
			assert.Equal(t, map[string]string{"price_local": MsgPriceInvalid}, errs, "price %q", tc.price)
		} else {
			assert.Empty(t, errs, "price %q", tc.price)
		}
	}
}

func TestValidate_PricingIgnoresTitle(t *testing.T) {
	errs := Validate(StepPricing, Draft{Title: "", PriceLocal: "10"})
	assert.Empty(t, errs)
}

func TestValidateAll(t *testing.T) {
	errs := ValidateAll(Draft{})
	assert.Equal(t, map[string]string{
		"title":       MsgTitleRequired,
		"price_local": MsgPriceInvalid,
	}, errs)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "basic_info", StepBasicInfo.String())
	assert.Equal(t, "media", StepMedia.String())
	assert.Equal(t, "step_9", Step(9).String())
	assert.False(t, Step(0).Valid())
	assert.False(t, Step(8).Valid())
}
