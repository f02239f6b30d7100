package auth

// Mode is which form the auth card shows. Only the toggle link moves between the two.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

type (
	// Credentials is the submitted form. It lives for one request.
	Credentials struct {
		Name                 string
		Email                string
		Password             string
		PasswordConfirmation string
	}

	// CardData is what the auth_card template renders.
	CardData struct {
		Mode  Mode
		Name  string
		Email string
		Error string
	}
)

// ParseMode maps a query or form value to a mode, defaulting to login.
func ParseMode(s string) Mode {
	if Mode(s) == ModeRegister {
		return ModeRegister
	}
	return ModeLogin
}

func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

func (m Mode) IsRegister() bool { return m == ModeRegister }

func (m Mode) Title() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Login"
}

func (m Mode) Prompt() string {
	if m == ModeRegister {
		return "Already have an account?"
	}
	return "Don't have an account?"
}
