package domain

// Language is the voter's display language preference.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	English = Language{Code: "en", Name: "English"}
	Hindi   = Language{Code: "hi", Name: "हिंदी"}
)

// DefaultLanguage is used when no preference has been stored.
var DefaultLanguage = English

// LanguageByCode returns the supported language for code.
func LanguageByCode(code string) (Language, bool) {
	switch code {
	case English.Code:
		return English, true
	case Hindi.Code:
		return Hindi, true
	}
	return Language{}, false
}

var translations = map[string]map[string]string{
	"en": {
		"landing.title":           "Futuristic Voting System",
		"landing.subtitle":        "Secure, Transparent, Democratic",
		"landing.login":           "Login",
		"landing.username":        "Username",
		"landing.password":        "Password",
		"voter.title":             "Voter Verification",
		"voter.aadhar":            "Aadhar Number",
		"voter.pan":               "PAN Number",
		"voter.voterId":           "Voter ID Number",
		"voter.phone":             "Phone Number",
		"voter.otp":               "Enter OTP",
		"voter.verify":            "Verify",
		"voter.sendOtp":           "Send OTP",
		"biometric.title":         "Biometric Verification",
		"biometric.facePrompt":    "Place your face in the frame",
		"biometric.eyePrompt":     "Place left eye in the scanner",
		"biometric.moveForward":   "Move forward",
		"biometric.verified":      "Verified",
		"voting.title":            "Cast Your Vote",
		"voting.privacyCheck":     "Privacy Verification",
		"voting.privacyVerified":  "Privacy Verified - You are alone",
		"voting.selectCandidate":  "Select Your Candidate",
		"confirmation.title":      "Confirm Your Vote",
		"confirmation.selected":   "You have selected:",
		"confirmation.confirm":    "Confirm Vote",
		"confirmation.back":       "Go Back",
		"receipt.title":           "Vote Receipt",
		"receipt.voteId":          "Vote ID:",
		"receipt.timestamp":       "Timestamp:",
		"common.next":             "Next",
		"common.back":             "Back",
		"common.loading":          "Loading...",
		"common.error":            "Error occurred",
		"language.toggle":         "हिंदी",
		"language.moreComingSoon": "More languages coming soon",
	},
	"hi": {
		"landing.title":           "भविष्य की मतदान प्रणाली",
		"landing.subtitle":        "सुरक्षित, पारदर्शी, लोकतांत्रिक",
		"landing.login":           "लॉगिन",
		"landing.username":        "उपयोगकर्ता नाम",
		"landing.password":        "पासवर्ड",
		"voter.title":             "मतदाता सत्यापन",
		"voter.aadhar":            "आधार संख्या",
		"voter.pan":               "पैन संख्या",
		"voter.voterId":           "मतदाता पहचान संख्या",
		"voter.phone":             "फोन नंबर",
		"voter.otp":               "ओटीपी दर्ज करें",
		"voter.verify":            "सत्यापित करें",
		"voter.sendOtp":           "ओटीपी भेजें",
		"biometric.title":         "बायोमेट्रिक सत्यापन",
		"biometric.facePrompt":    "अपना चेहरा फ्रेम में रखें",
		"biometric.eyePrompt":     "बाईं आंख को स्कैनर में रखें",
		"biometric.moveForward":   "आगे बढ़ें",
		"biometric.verified":      "सत्यापित",
		"voting.title":            "अपना वोट डालें",
		"voting.privacyCheck":     "गोपनीयता सत्यापन",
		"voting.privacyVerified":  "गोपनीयता सत्यापित - आप अकेले हैं",
		"voting.selectCandidate":  "अपना उम्मीदवार चुनें",
		"confirmation.title":      "अपने वोट की पुष्टि करें",
		"confirmation.selected":   "आपने चुना है:",
		"confirmation.confirm":    "वोट की पुष्टि करें",
		"confirmation.back":       "वापस जाएं",
		"receipt.title":           "वोट रसीद",
		"receipt.voteId":          "वोट आईडी:",
		"receipt.timestamp":       "समय:",
		"common.next":             "अगला",
		"common.back":             "वापस",
		"common.loading":          "लोड हो रहा है...",
		"common.error":            "त्रुटि हुई",
		"language.toggle":         "English",
		"language.moreComingSoon": "अधिक भाषाएं जल्द आ रही हैं",
	},
}

// Translate looks key up in the table for code. Unknown keys come back as-is.
func Translate(code, key string) string {
	if s, ok := translations[code][key]; ok {
		return s
	}
	return key
}

// Translations returns a copy of the string table for code.
func Translations(code string) map[string]string {
	table := translations[code]
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}
