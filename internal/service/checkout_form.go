package service

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CheckoutForm mirrors the storefront payment form. Validation failures are
// recoverable: the caller re-renders with FieldErrors and nothing is mutated.
type CheckoutForm struct {
	FullName   string `json:"fullName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,len=10,number"`
	Address    string `json:"address" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=50"`
	Province   string `json:"province" validate:"required,max=50"`
	Zip        string `json:"zip" validate:"required,zipcode"`
	CardHolder string `json:"cardHolder" validate:"required,max=100"`
	CardNumber string `json:"cardNumber" validate:"required,credit_card"`
	Expiry     string `json:"expiry" validate:"required,cardexpiry"`
	CVV        string `json:"cvv" validate:"required,number,min=3,max=4"`
}

// FieldErrors maps a form field (JSON name) to its first validation message.
type FieldErrors map[string]string

var (
	zipRe    = regexp.MustCompile(`^[A-Za-z]{2}\d{3}$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/?([0-9]{2})$`)

	checkoutValidate = newCheckoutValidator()
)

func newCheckoutValidator() *validator.Validate {
	v := validator.New()
	// report the json name so FieldErrors keys match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cardexpiry", func(fl validator.FieldLevel) bool {
		return expiryValid(fl.Field().String(), time.Now())
	})
	return v
}

// expiryValid accepts MM/YY (slash optional) for the current month or later.
// A card is good through the last instant of its expiry month.
func expiryValid(s string, now time.Time) bool {
	m := expiryRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.Before(endOfMonth)
}

// ValidateCheckoutForm returns nil when the form passes, else one message per
// failing field.
func ValidateCheckoutForm(f *CheckoutForm) FieldErrors {
	err := checkoutValidate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": "invalid form"}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, dup := out[fe.Field()]; dup {
			continue
		}
		out[fe.Field()] = checkoutMessage(fe)
	}
	return out
}

func checkoutMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "fullName":
		if fe.Tag() == "required" {
			return "Full Name is required."
		}
		return "Full Name cannot exceed 100 characters."
	case "email":
		if fe.Tag() == "required" {
			return "Email is required."
		}
		return "Enter a valid email address."
	case "phone":
		if fe.Tag() == "required" {
			return "Phone number is required."
		}
		return "Enter a valid 10-digit phone number."
	case "address":
		if fe.Tag() == "required" {
			return "Address is required."
		}
		return "Address cannot exceed 200 characters."
	case "city":
		if fe.Tag() == "required" {
			return "City is required."
		}
		return "City cannot exceed 50 characters."
	case "province":
		if fe.Tag() == "required" {
			return "Province is required."
		}
		return "Province cannot exceed 50 characters."
	case "zip":
		if fe.Tag() == "required" {
			return "ZIP code is required."
		}
		return "Enter a valid ZIP code (e.g., AB123)."
	case "cardHolder":
		if fe.Tag() == "required" {
			return "Card Holder is required."
		}
		return "Card Holder cannot exceed 100 characters."
	case "cardNumber":
		if fe.Tag() == "required" {
			return "Card Number is required."
		}
		return "Enter a valid card number."
	case "expiry":
		if fe.Tag() == "required" {
			return "Expiry is required."
		}
		return "Enter a valid expiry date (MM/YY)."
	case "cvv":
		if fe.Tag() == "required" {
			return "CVV is required."
		}
		return "Enter a valid CVV (3 or 4 digits)."
	}
	return "Invalid value."
}
