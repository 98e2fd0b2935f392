package model

import "strings"

// SanitizePhone strips everything but decimal digits and truncates to 10
// characters, mirroring what the form does as the user types.
func SanitizePhone(v string) string {
	d := digitsOnly(v)
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}

func digitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateGuestSubmission checks every field rule and returns the complete
// map of violations keyed by field name, or an empty map when the submission
// is valid. It never fails fast: the caller gets every invalid field at once.
func ValidateGuestSubmission(s GuestSubmission) map[string]string {
	errs := make(map[string]string)

	if name := strings.TrimSpace(s.Name); name == "" {
		errs["name"] = "Name is required"
	} else if len(name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}

	if !isValidEmail(strings.TrimSpace(s.Email)) {
		errs["email"] = "Please enter a valid email address"
	}

	if len(digitsOnly(s.Mobile)) != 10 {
		errs["mobile"] = "Enter a valid 10-digit Mobile number"
	}
	if len(digitsOnly(s.Whatsapp)) != 10 {
		errs["whatsapp"] = "Enter a valid 10-digit WhatsApp number"
	}

	if strings.TrimSpace(s.State) == "" {
		errs["state"] = "State is required"
	}
	if strings.TrimSpace(s.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(s.Address) == "" {
		errs["address"] = "Address is required"
	}

	switch s.FollowsGita {
	case "yes":
		switch GitaRating(s.GitaSelfRating) {
		case GitaRatingLow, GitaRatingMedium, GitaRatingHigh:
		default:
			errs["gitaSelfRating"] = "Select your self-rating (Low/Medium/High) for Bhagavad Gita"
		}
	case "no":
		// Rating is irrelevant here; persistence clears it.
	default:
		errs["followsGita"] = "Please answer Yes or No"
	}

	return errs
}

// isValidEmail does a structural check: one @, a dot somewhere after it, and
// no whitespace anywhere.
func isValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
