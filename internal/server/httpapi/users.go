package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/resumehub/internal/server/services"
)

// adminKeyHeader may carry the admin secret instead of the request body.
const adminKeyHeader = "X-Admin-Key"

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type adminSignUpRequest struct {
	services.RegisterInput
	AdminKey string `json:"adminKey"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) signUp(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.services.Accounts.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusCreated, toAccountDTO(account))
}

func (s *HTTPServer) verifySignUp(w http.ResponseWriter, r *http.Request) {
	var in verifyRequest
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.services.Accounts.VerifyEmail(r.Context(), in.Email, in.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMessage(w, http.StatusOK, "email verified")
}

func (s *HTTPServer) signUpAdmin(w http.ResponseWriter, r *http.Request) {
	var in adminSignUpRequest
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if key := r.Header.Get(adminKeyHeader); key != "" {
		in.AdminKey = key
	}

	account, err := s.services.Accounts.RegisterAdmin(r.Context(), in.RegisterInput, in.AdminKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusCreated, toAccountDTO(account))
}

func (s *HTTPServer) signIn(w http.ResponseWriter, r *http.Request) {
	var in signInRequest
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.services.Accounts.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setTokenCookies(w, pair)
	s.writeData(w, http.StatusOK, pair)
}

// refreshToken takes the refresh token from the body, falling back to the
// refreshToken cookie set at sign-in.
func (s *HTTPServer) refreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if in.RefreshToken == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			in.RefreshToken = bearerToken(c.Value)
		}
	}

	pair, err := s.services.Tokens.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setTokenCookies(w, pair)
	s.writeData(w, http.StatusOK, pair)
}

func (s *HTTPServer) signOut(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	if err := s.services.Accounts.SignOut(r.Context(), actor.AccountID); err != nil {
		s.writeError(w, r, err)
		return
	}

	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	s.writeMessage(w, http.StatusOK, "signed out")
}

func (s *HTTPServer) getMe(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	view, err := s.services.Accounts.Get(r.Context(), actor.AccountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, toProfileDTO(view))
}

func (s *HTTPServer) updateMe(w http.ResponseWriter, r *http.Request) {
	var patch services.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	actor := actorFromContext(r.Context())
	res, err := s.services.Profiles.Update(r.Context(), actor, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, updateDTO[profileNameDTO]{Item: profileNameDTO{Name: res.Profile.Name}, Changes: toChangeDTOs(res.Changes)})
}

func (s *HTTPServer) getHistory(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	records, err := s.services.Accounts.History(r.Context(), actor.AccountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, toChangeDTOs(records))
}

func setTokenCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: pair.AccessToken, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: pair.RefreshToken, Path: "/api/users/token", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}
