package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports/mocks"
	"crowdsrc/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	logs    *bytes.Buffer
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(s.logs, nil))

	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) post(body any) *http.Request {
	return testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/users", body)
}

func (s *HandlerSuite) validRequest() models.CreateUserRequest {
	name, err := models.NewUserName("Kristoffer")
	s.Require().NoError(err)
	email, err := models.NewEmailAddress("kristoffer@example.com")
	s.Require().NoError(err)
	return models.NewCreateUserRequest(name, email)
}

func (s *HandlerSuite) TestCreateUser_Success() {
	req := s.validRequest()
	id := uuid.New()
	s.service.EXPECT().CreateUser(gomock.Any(), req).
		Return(models.NewUser(id, req.UserName(), req.Email(), time.Now()), nil)

	rr := testutil.DoRequest(s.router, s.post(CreateUserRequest{UserName: "Kristoffer", EmailAddress: "kristoffer@example.com"}))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	s.Equal("application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Equal(float64(http.StatusCreated), body["status_code"])
	s.Equal(map[string]any{"id": id.String()}, body["data"], "only the id is echoed back")
}

func (s *HandlerSuite) TestCreateUser_ValidationFailsBeforeService() {
	cases := []struct {
		name     string
		body     CreateUserRequest
		expected string
	}{
		{"empty username", CreateUserRequest{UserName: "", EmailAddress: "kristoffer@example.com"}, "username can't be empty"},
		{"whitespace only username", CreateUserRequest{UserName: "   ", EmailAddress: "kristoffer@example.com"}, "username can't be empty"},
		{"interior whitespace", CreateUserRequest{UserName: "Kris toffer", EmailAddress: "kristoffer@example.com"}, "username 'Kris toffer' is not valid"},
		{"untrimmed input is reported", CreateUserRequest{UserName: " a b ", EmailAddress: "kristoffer@example.com"}, "username ' a b ' is not valid"},
		{"malformed email", CreateUserRequest{UserName: "Kristoffer", EmailAddress: "not-an-email"}, "email address not-an-email is invalid"},
		{"empty email", CreateUserRequest{UserName: "Kristoffer", EmailAddress: ""}, "email address  is invalid"},
		{"username is checked first", CreateUserRequest{UserName: "", EmailAddress: "nope"}, "username can't be empty"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.service.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

			rr := testutil.DoRequest(s.router, s.post(tc.body))

			testutil.AssertAPIError(s.T(), rr, http.StatusUnprocessableEntity, tc.expected)
		})
	}
}

func (s *HandlerSuite) TestCreateUser_MissingFieldsAreValidationErrors() {
	s.service.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

	rr := testutil.DoRequest(s.router, s.post(map[string]string{"email_address": "kristoffer@example.com"}))

	testutil.AssertAPIError(s.T(), rr, http.StatusUnprocessableEntity, "username can't be empty")
}

func (s *HandlerSuite) TestCreateUser_MalformedBody() {
	s.service.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/users", `{"username":`))

	testutil.AssertAPIError(s.T(), rr, http.StatusBadRequest, "invalid request body")
}

func (s *HandlerSuite) TestCreateUser_Conflicts() {
	req := s.validRequest()

	s.Run("duplicate username", func() {
		s.service.EXPECT().CreateUser(gomock.Any(), req).
			Return(models.User{}, &models.DuplicateUserNameError{UserName: req.UserName()})

		rr := testutil.DoRequest(s.router, s.post(CreateUserRequest{UserName: "Kristoffer", EmailAddress: "kristoffer@example.com"}))

		testutil.AssertAPIError(s.T(), rr, http.StatusUnprocessableEntity, "user with username Kristoffer already exists")
	})

	s.Run("duplicate email", func() {
		s.service.EXPECT().CreateUser(gomock.Any(), req).
			Return(models.User{}, &models.DuplicateEmailError{Email: req.Email()})

		rr := testutil.DoRequest(s.router, s.post(CreateUserRequest{UserName: "Kristoffer", EmailAddress: "kristoffer@example.com"}))

		testutil.AssertAPIError(s.T(), rr, http.StatusUnprocessableEntity, "user with email 'kristoffer@example.com' already exists")
	})
}

func (s *HandlerSuite) TestCreateUser_UnknownErrorIsHidden() {
	req := s.validRequest()
	cause := errors.New("pq: connection reset by peer")
	s.service.EXPECT().CreateUser(gomock.Any(), req).
		Return(models.User{}, models.NewUnknownError(cause))

	rr := testutil.DoRequest(s.router, s.post(CreateUserRequest{UserName: "Kristoffer", EmailAddress: "kristoffer@example.com"}))

	s.NotContains(rr.Body.String(), "connection reset")
	testutil.AssertAPIError(s.T(), rr, http.StatusInternalServerError, "Internal server error")
	s.Contains(s.logs.String(), "create user failed")
	s.Contains(s.logs.String(), "connection reset by peer")
}

func (s *HandlerSuite) TestHome() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api"))

	testutil.AssertStatusOK(s.T(), rr)
	body := testutil.UnmarshalResponse[testutil.APIResponse[homeResponse]](s.T(), rr)
	s.Equal(http.StatusOK, body.StatusCode)
	s.Equal("crowdsrc api", body.Data.Message)
}
