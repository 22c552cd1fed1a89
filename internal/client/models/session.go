package models

// Session is the token set returned by login and refresh.
type Session struct {
	AccessToken  string `json:"AccessToken"`
	IdToken      string `json:"IdToken"`
	RefreshToken string `json:"RefreshToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
}

// CodeDelivery tells where a confirmation code was (notionally) sent.
type CodeDelivery struct {
	Destination    string `json:"Destination"`
	DeliveryMedium string `json:"DeliveryMedium"`
	AttributeName  string `json:"AttributeName"`
}

// UserInfo is the profile returned by GET /auth/user.
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	EmailVerified bool   `json:"emailVerified"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}
