package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/kuzmin-dev/counterparty-api/internal/constants"
	"github.com/kuzmin-dev/counterparty-api/internal/database"
	"github.com/kuzmin-dev/counterparty-api/internal/dto"
	"github.com/kuzmin-dev/counterparty-api/internal/middleware"
	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"github.com/kuzmin-dev/counterparty-api/internal/repository"
	"github.com/kuzmin-dev/counterparty-api/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CounterpartyHandlerTestSuite defines the test suite for CounterpartyHandler
type CounterpartyHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CounterpartyHandler
	owner   *models.User
	other   *models.User
}

type counterpartyResponse struct {
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	Counterparty   *dto.CounterpartyDTO  `json:"counterparty"`
	Counterparties []dto.CounterpartyDTO `json:"counterparties"`
}

// SetupTest runs before each test
func (suite *CounterpartyHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Counterparty{},
		&models.Phone{},
		&models.Email{},
		&models.Website{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	counterpartyRepo := repository.NewCounterpartyRepository(suite.db)
	suite.handler = NewCounterpartyHandler(services.NewCounterpartyService(counterpartyRepo))

	suite.owner = &models.User{Username: "owner", PasswordHash: "hash"}
	suite.db.Create(suite.owner)
	suite.other = &models.User{Username: "other", PasswordHash: "hash"}
	suite.db.Create(suite.other)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CounterpartyHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// newRouter builds a router authenticated as the given user, with the
// ownership middleware in place on the :id routes.
func (suite *CounterpartyHandlerTestSuite) newRouter(userID uint64) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
	})

	api := r.Group("/api/counterparties")
	api.GET("", suite.handler.List)
	api.POST("", suite.handler.Create)
	api.GET("/:id", middleware.RequireCounterpartyOwner(), suite.handler.Get)
	api.PUT("/:id", middleware.RequireCounterpartyOwner(), suite.handler.Update)
	api.DELETE("/:id", middleware.RequireCounterpartyOwner(), suite.handler.Delete)

	return r
}

func (suite *CounterpartyHandlerTestSuite) do(r *gin.Engine, method, url string, payload interface{}) (*httptest.ResponseRecorder, counterpartyResponse) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		suite.Require().NoError(err)
	}

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp counterpartyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (suite *CounterpartyHandlerTestSuite) TestCreateAndGet() {
	r := suite.newRouter(suite.owner.ID)

	w, resp := suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{
		OrgName:  "Acme Ltd",
		INN:      "7707083893",
		Phones:   []string{"+7 900 123-45-67", ""},
		Emails:   []string{"info@acme.test"},
		Websites: []string{"https://acme.test"},
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.True(resp.Success)
	suite.Require().NotNil(resp.Counterparty)
	suite.Equal("Acme Ltd", resp.Counterparty.OrgName)
	suite.Equal([]string{"+7 900 123-45-67"}, resp.Counterparty.Phones)

	w, resp = suite.do(r, http.MethodGet, "/api/counterparties/1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NotNil(resp.Counterparty)
	suite.Equal("7707083893", resp.Counterparty.INN)
	suite.Equal([]string{"https://acme.test"}, resp.Counterparty.Websites)
}

func (suite *CounterpartyHandlerTestSuite) TestCreateWithoutOrgNameFails() {
	r := suite.newRouter(suite.owner.ID)

	w, resp := suite.do(r, http.MethodPost, "/api/counterparties", map[string]interface{}{
		"org_name": "   ",
		"phones":   []string{"111"},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(resp.Success)

	var count int64
	suite.db.Model(&models.Counterparty{}).Count(&count)
	suite.Zero(count)
}

func (suite *CounterpartyHandlerTestSuite) TestListNewestFirstAndScopedToOwner() {
	r := suite.newRouter(suite.owner.ID)

	_, first := suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{OrgName: "First"})
	_, second := suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{OrgName: "Second"})

	foreign := suite.newRouter(suite.other.ID)
	suite.do(foreign, http.MethodPost, "/api/counterparties", CounterpartyRequest{OrgName: "Foreign"})

	w, resp := suite.do(r, http.MethodGet, "/api/counterparties", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().Len(resp.Counterparties, 2)
	suite.Equal(second.Counterparty.ID, resp.Counterparties[0].ID)
	suite.Equal(first.Counterparty.ID, resp.Counterparties[1].ID)
}

func (suite *CounterpartyHandlerTestSuite) TestSearchByQueryAndField() {
	r := suite.newRouter(suite.owner.ID)

	suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{
		OrgName: "Alpha",
		Emails:  []string{"sales@alpha.test"},
	})
	suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{
		OrgName: "Beta",
		Address: "alpha street 1",
	})

	w, resp := suite.do(r, http.MethodGet, "/api/counterparties?q=ALPHA&field=all", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(resp.Counterparties, 2)

	w, resp = suite.do(r, http.MethodGet, "/api/counterparties?q=alpha&field=org_name", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().Len(resp.Counterparties, 1)
	suite.Equal("Alpha", resp.Counterparties[0].OrgName)

	w, resp = suite.do(r, http.MethodGet, "/api/counterparties?q=sales%40alpha&field=emails", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(resp.Counterparties, 1)
}

func (suite *CounterpartyHandlerTestSuite) TestUpdateReplacesContacts() {
	r := suite.newRouter(suite.owner.ID)

	_, created := suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{
		OrgName: "Acme",
		Phones:  []string{"111", "222"},
	})
	suite.Require().NotNil(created.Counterparty)

	w, resp := suite.do(r, http.MethodPut, "/api/counterparties/1", CounterpartyRequest{
		OrgName: "Acme Renamed",
		Phones:  []string{"a", "", "  ", "b"},
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.True(resp.Success)
	suite.Require().NotNil(resp.Counterparty)
	suite.Equal("Acme Renamed", resp.Counterparty.OrgName)
	suite.Equal([]string{"a", "b"}, resp.Counterparty.Phones)

	var phones []models.Phone
	suite.db.Where("counterparty_id = ?", created.Counterparty.ID).Order("id").Find(&phones)
	suite.Require().Len(phones, 2)
	suite.Equal("a", phones[0].Number)
	suite.Equal("b", phones[1].Number)
}

func (suite *CounterpartyHandlerTestSuite) TestForeignRecordIsNotFound() {
	owner := suite.newRouter(suite.owner.ID)
	suite.do(owner, http.MethodPost, "/api/counterparties", CounterpartyRequest{OrgName: "Private"})

	intruder := suite.newRouter(suite.other.ID)

	w, resp := suite.do(intruder, http.MethodGet, "/api/counterparties/1", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.False(resp.Success)

	w, _ = suite.do(intruder, http.MethodPut, "/api/counterparties/1", CounterpartyRequest{OrgName: "Stolen"})
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.do(intruder, http.MethodDelete, "/api/counterparties/1", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	// Still intact for the owner.
	w, resp = suite.do(owner, http.MethodGet, "/api/counterparties/1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Private", resp.Counterparty.OrgName)
}

func (suite *CounterpartyHandlerTestSuite) TestDeleteRemovesContactChildren() {
	r := suite.newRouter(suite.owner.ID)

	_, created := suite.do(r, http.MethodPost, "/api/counterparties", CounterpartyRequest{
		OrgName: "Acme",
		Phones:  []string{"111"},
		Emails:  []string{"a@b.c"},
	})

	w, resp := suite.do(r, http.MethodDelete, "/api/counterparties/1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(resp.Success)

	var phones, emails int64
	suite.db.Model(&models.Phone{}).Where("counterparty_id = ?", created.Counterparty.ID).Count(&phones)
	suite.db.Model(&models.Email{}).Where("counterparty_id = ?", created.Counterparty.ID).Count(&emails)
	suite.Zero(phones)
	suite.Zero(emails)

	w, _ = suite.do(r, http.MethodGet, "/api/counterparties/1", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestCounterpartyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CounterpartyHandlerTestSuite))
}
