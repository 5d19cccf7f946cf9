// Package security masks personal data in ticket text and flags phishing
// attempts before the text is classified, stored for display or returned.
package security

import (
	"regexp"
	"strings"
)

const (
	EmailPlaceholder  = "[EMAIL_REDACTED]"
	NumberPlaceholder = "[NUMBER_REDACTED]"
)

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	numberPattern = regexp.MustCompile(`\d{8,}`)
	urlPattern    = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
)

// credentialKeywords flag a ticket as sensitive but are left in the text.
var credentialKeywords = []string{
	"password",
	"contraseña",
	"contrasena",
	"clave",
	"pass",
	"usuario",
	"user",
	"login",
	"credencial",
	"credential",
}

// phishingPhrases only count when the text also carries a URL.
var phishingPhrases = []string{
	"verify your account",
	"account will be blocked",
	"click the following link",
	"urgent",
	"verificar cuenta",
	"verifique su cuenta",
	"verificar su cuenta",
	"bloqueo de su cuenta",
	"su cuenta será bloqueada",
	"su cuenta sera bloqueada",
	"haga clic en el siguiente enlace",
	"haz clic en el siguiente enlace",
	"click en el siguiente enlace",
	"actualice sus datos",
	"actualizar sus datos",
	"ha sido comprometida",
	"urgente",
	"inmediatamente",
}

// Result is the outcome of preprocessing one text.
type Result struct {
	Original            string
	Anonymized          string
	HasSensitiveData    bool
	IsSuspectedPhishing bool
}

// Preprocess redacts e-mail addresses and long digit runs and raises the
// sensitive-data and phishing flags. It is pure and deterministic.
func Preprocess(text string) Result {
	anonymized := emailPattern.ReplaceAllString(text, EmailPlaceholder)
	anonymized = numberPattern.ReplaceAllString(anonymized, NumberPlaceholder)

	lower := strings.ToLower(text)
	sensitive := anonymized != text || containsAny(lower, credentialKeywords)
	phishing := urlPattern.MatchString(text) && containsAny(lower, phishingPhrases)

	return Result{
		Original:            text,
		Anonymized:          anonymized,
		HasSensitiveData:    sensitive,
		IsSuspectedPhishing: phishing,
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
