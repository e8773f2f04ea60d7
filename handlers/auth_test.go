package handlers

import (
	"net/http"
)

func (s *E2ETestSuite) Test01_RegisterUsers() {
	for _, username := range []string{s.usernameA, s.usernameB} {
		resp := s.do("POST", "/register", "", map[string]string{
			"username": username,
			"password": "correct-horse",
		})
		resp.Body.Close()
		s.Equal(http.StatusCreated, resp.StatusCode)
	}
}

func (s *E2ETestSuite) Test02_RegisterValidation() {
	resp := s.do("POST", "/register", "", map[string]string{
		"username": "ab",
		"password": "correct-horse",
	})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("POST", "/register", "", map[string]string{
		"username": s.usernameA + "-x",
		"password": "",
	})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_RegisterDuplicateUsername() {
	resp := s.do("POST", "/register", "", map[string]string{
		"username": s.usernameA,
		"password": "another-pass",
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test04_Login() {
	resp := s.do("POST", "/login", "", map[string]string{
		"username": s.usernameA,
		"password": "wrong",
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	resp = s.do("POST", "/login", "", map[string]string{
		"username": s.usernameA,
		"password": "correct-horse",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &body)
	s.NotEmpty(body.Token)
	s.tokenA = body.Token

	resp = s.do("POST", "/login", "", map[string]string{
		"username": s.usernameB,
		"password": "correct-horse",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &body)
	s.NotEmpty(body.Token)
	s.tokenB = body.Token
}

func (s *E2ETestSuite) Test05_AnonymousRejected() {
	resp := s.do("GET", "/notes", "", nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.do("GET", "/notes", "not-a-token", nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
