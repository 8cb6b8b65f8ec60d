package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MihaiMusteata/url-shortener/internal/config"
	"github.com/MihaiMusteata/url-shortener/internal/services"
	"github.com/MihaiMusteata/url-shortener/internal/services/smocks"
	"github.com/MihaiMusteata/url-shortener/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret"

type ShortLinksControllerSuite struct {
	suite.Suite
	linkServMock *smocks.LinkProviderMock
	router       *gin.Engine
	userID       uuid.UUID
}

func (s *ShortLinksControllerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.linkServMock = new(smocks.LinkProviderMock)
	s.userID = uuid.New()

	appConf := config.Config{
		ServerAddress: ":80",
		BaseURL:       &url.URL{Scheme: "http", Host: "test.com:8080"},
		JWTSecret:     testJWTSecret,
		Logger:        logger,
	}
	s.router = SetupRouter(RouterParams{
		LinkService: s.linkServMock,
		AppConf:     &appConf,
		Logger:      logger,
	})
}

func (s *ShortLinksControllerSuite) authHeader() string {
	token, err := tokens.GenerateAccessJWT(s.userID.String(), time.Hour, []byte(testJWTSecret))
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *ShortLinksControllerSuite) TestCreate() {
	linkID := uuid.New()
	validBody := `{"url":"https://test.com/valid","customAlias":"docs","enableQr":true}`

	s.linkServMock.On("Create", mock.Anything, s.userID, services.CreateLinkRequest{
		URL:         "https://test.com/valid",
		CustomAlias: "docs",
		EnableQr:    true,
	}).Return(&services.CreateLinkResponse{
		ID:       linkID,
		Alias:    "docs",
		ShortURL: "http://test.com:8080/docs",
		QrURL:    "https://api.qrserver.com/v1/create-qr-code/?size=220x220&data=http%3A%2F%2Ftest.com%3A8080%2Fdocs",
	}, nil)

	res := s.makeRequest(requestFields{
		Method:     http.MethodPost,
		URL:        "/api/shortlinks",
		Body:       strings.NewReader(validBody),
		AuthHeader: s.authHeader(),
	})
	defer res.Body.Close()

	s.Equal(http.StatusCreated, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	s.Contains(string(body), `"alias":"docs"`)
	s.Contains(string(body), `"shortUrl":"http://test.com:8080/docs"`)
}

func (s *ShortLinksControllerSuite) TestCreate_Errors() {
	tests := []struct {
		name       string
		servErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "alias taken", servErr: services.ErrAliasTaken, wantStatus: http.StatusConflict, wantBody: "already taken"},
		{name: "plan upgrade", servErr: services.ErrUpgradeRequired, wantStatus: http.StatusBadRequest, wantBody: `"upgradeRequired":true`},
		{name: "invalid input", servErr: services.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantBody: "error"},
		{name: "allocation exhausted", servErr: services.ErrAllocationExhausted, wantStatus: http.StatusBadRequest, wantBody: "error"},
		{name: "internal", servErr: services.ErrPersistence, wantStatus: http.StatusInternalServerError, wantBody: "internal error"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.linkServMock.On("Create", mock.Anything, s.userID, mock.Anything).Return(nil, tt.servErr)

			res := s.makeRequest(requestFields{
				Method:     http.MethodPost,
				URL:        "/api/shortlinks",
				Body:       strings.NewReader(`{"url":"https://test.com"}`),
				AuthHeader: s.authHeader(),
			})
			defer res.Body.Close()

			body, _ := io.ReadAll(res.Body)
			s.Equal(tt.wantStatus, res.StatusCode, "Answer:", string(body))
			s.Contains(string(body), tt.wantBody)
		})
	}
}

func (s *ShortLinksControllerSuite) TestCreate_Unauthorized() {
	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "no header", authHeader: ""},
		{name: "not bearer", authHeader: "Basic abc"},
		{name: "garbage token", authHeader: "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method:     http.MethodPost,
				URL:        "/api/shortlinks",
				Body:       strings.NewReader(`{"url":"https://test.com"}`),
				AuthHeader: tt.authHeader,
			})
			defer res.Body.Close()

			s.Equal(http.StatusUnauthorized, res.StatusCode)
		})
	}
	s.linkServMock.AssertNotCalled(s.T(), "Create")
}

func (s *ShortLinksControllerSuite) TestCreate_ExpiredToken() {
	token, err := tokens.GenerateAccessJWT(s.userID.String(), -time.Minute, []byte(testJWTSecret))
	s.Require().NoError(err)

	res := s.makeRequest(requestFields{
		Method:     http.MethodPost,
		URL:        "/api/shortlinks",
		Body:       strings.NewReader(`{"url":"https://test.com"}`),
		AuthHeader: "Bearer " + token,
	})
	defer res.Body.Close()

	s.Equal(http.StatusUnauthorized, res.StatusCode)
	s.linkServMock.AssertNotCalled(s.T(), "Create")
}

func (s *ShortLinksControllerSuite) TestList() {
	s.linkServMock.On("ListByOwner", mock.Anything, s.userID).Return([]services.LinkSummary{
		{ID: uuid.New(), Alias: "docs", ShortURL: "http://test.com:8080/docs", Clicks: 3},
	}, nil)

	res := s.makeRequest(requestFields{
		Method:     http.MethodGet,
		URL:        "/api/shortlinks",
		AuthHeader: s.authHeader(),
	})
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	s.Contains(string(body), `"alias":"docs"`)
}

func (s *ShortLinksControllerSuite) TestGetDetails() {
	linkID := uuid.New()
	foreignID := uuid.New()
	missingID := uuid.New()

	s.linkServMock.On("GetDetails", mock.Anything, s.userID, linkID).
		Return(&services.DetailsView{ID: linkID, Alias: "docs", TotalClicks: 7}, nil)
	s.linkServMock.On("GetDetails", mock.Anything, s.userID, foreignID).
		Return(nil, services.ErrForbidden)
	s.linkServMock.On("GetDetails", mock.Anything, s.userID, missingID).
		Return(nil, services.ErrRecordNotFound)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "owner", id: linkID.String(), wantStatus: http.StatusOK},
		{name: "foreign link", id: foreignID.String(), wantStatus: http.StatusForbidden},
		{name: "missing link", id: missingID.String(), wantStatus: http.StatusNotFound},
		{name: "malformed id", id: "not-a-uuid", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method:     http.MethodGet,
				URL:        fmt.Sprintf("/api/shortlinks/%s", tt.id),
				AuthHeader: s.authHeader(),
			})
			defer res.Body.Close()

			body, _ := io.ReadAll(res.Body)
			s.Equal(tt.wantStatus, res.StatusCode, "Answer:", string(body))
			if tt.wantStatus == http.StatusOK {
				s.Contains(string(body), `"totalClicks":7`)
			}
		})
	}
	// кривой uuid отбрасывается до сервиса
	s.linkServMock.AssertNumberOfCalls(s.T(), "GetDetails", 3)
}

func (s *ShortLinksControllerSuite) TestDelete() {
	linkID := uuid.New()
	s.linkServMock.On("Delete", mock.Anything, s.userID, linkID).Return(nil)

	res := s.makeRequest(requestFields{
		Method:     http.MethodDelete,
		URL:        fmt.Sprintf("/api/shortlinks/%s", linkID),
		AuthHeader: s.authHeader(),
	})
	defer res.Body.Close()

	s.Equal(http.StatusNoContent, res.StatusCode)
	s.linkServMock.AssertExpectations(s.T())
}

func (s *ShortLinksControllerSuite) TestRedirect() {
	validAlias := "docs"
	missingAlias := "gone4you"
	frozenAlias := "frozen22"
	redirectTo := "https://test.com/test/123"

	s.linkServMock.On("ResolveAndTrack", mock.Anything, validAlias, mock.Anything, mock.Anything).
		Return(redirectTo, nil)
	s.linkServMock.On("ResolveAndTrack", mock.Anything, missingAlias, mock.Anything, mock.Anything).
		Return("", services.ErrRecordNotFound)
	s.linkServMock.On("ResolveAndTrack", mock.Anything, frozenAlias, mock.Anything, mock.Anything).
		Return("", services.ErrLinkInactive)

	tests := []struct {
		name       string
		alias      string
		wantStatus int
	}{
		{name: "valid", alias: validAlias, wantStatus: http.StatusTemporaryRedirect},
		{name: "not found", alias: missingAlias, wantStatus: http.StatusNotFound},
		{name: "inactive is indistinguishable", alias: frozenAlias, wantStatus: http.StatusNotFound},
		{name: "too short", alias: "ab", wantStatus: http.StatusNotFound},
		{name: "bad chars", alias: "do!cs", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method: http.MethodGet,
				URL:    "/" + tt.alias,
			})
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantStatus == http.StatusTemporaryRedirect {
				s.Equal(redirectTo, res.Header.Get("Location"))
			} else {
				s.Empty(res.Header.Get("Location"))
			}
		})
	}
	// кривые алиасы отбрасываются до сервиса
	s.linkServMock.AssertNumberOfCalls(s.T(), "ResolveAndTrack", 3)
}

func (s *ShortLinksControllerSuite) TestRedirect_PassesClientContext() {
	s.linkServMock.On("ResolveAndTrack", mock.Anything, "docs", "https://google.com/", "curl/8.4.0").
		Return("https://test.com", nil).Once()

	request := httptest.NewRequest(http.MethodGet, "/docs", nil)
	request.Header.Set("Referer", "https://google.com/")
	request.Header.Set("User-Agent", "curl/8.4.0")

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	res := recorder.Result()
	defer res.Body.Close()

	s.Equal(http.StatusTemporaryRedirect, res.StatusCode)
	s.linkServMock.AssertExpectations(s.T())
}

type requestFields struct {
	Method     string
	URL        string
	Body       io.Reader
	AuthHeader string
}

// makeRequest вспомогательная функция создающая тестовый http запрос.
func (s *ShortLinksControllerSuite) makeRequest(fields requestFields) *http.Response {
	request := httptest.NewRequest(fields.Method, fields.URL, fields.Body)
	if fields.Body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if fields.AuthHeader != "" {
		request.Header.Set("Authorization", fields.AuthHeader)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func TestShortLinksControllerSuite(t *testing.T) {
	suite.Run(t, new(ShortLinksControllerSuite))
}
