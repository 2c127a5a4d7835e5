package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/sadhanahub/sadhana/internal/tenant/domain"
)

// tenantProfile is the outward shape of a tenant: credentials and the
// security answer never leave the core.
type tenantProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AuthCode         string `json:"auth_code"`
	AdminName        string `json:"admin_name,omitempty"`
	SecurityQuestion string `json:"security_question,omitempty"`
}

func toProfile(t tenantdomain.Tenant) tenantProfile {
	return tenantProfile{
		ID:               t.ID.String(),
		Name:             t.Name,
		AuthCode:         t.AuthCode,
		AdminName:        t.AdminName,
		SecurityQuestion: t.SecurityQuestion,
	}
}

type loginRequest struct {
	AuthCode string `json:"auth_code"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.Authenticate(c.Request.Context(), req.AuthCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProfile(tenant)})
}

type provisionRequest struct {
	Name             string `json:"name"`
	AuthCode         string `json:"auth_code"`
	AdminPassword    string `json:"admin_password"`
	AdminName        string `json:"admin_name"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

func (s *Server) ProvisionSystem(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.Provision(c.Request.Context(), tenantdomain.ProvisionRequest{
		Name:             req.Name,
		AuthCode:         req.AuthCode,
		AdminPassword:    req.AdminPassword,
		AdminName:        req.AdminName,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProfile(tenant)})
}

func (s *Server) SecurityQuestion(c *gin.Context) {
	authCode := strings.TrimSpace(c.Query("auth_code"))
	question, err := s.tenantSvc.SecurityQuestion(c.Request.Context(), authCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"security_question": question}})
}

type resetPasswordRequest struct {
	AuthCode       string `json:"auth_code"`
	SecurityAnswer string `json:"security_answer"`
	NewPassword    string `json:"new_password"`
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.tenantSvc.ResetAdminPassword(c.Request.Context(), tenantdomain.ResetPasswordRequest{
		AuthCode:       req.AuthCode,
		SecurityAnswer: req.SecurityAnswer,
		NewPassword:    req.NewPassword,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetSystem(c *gin.Context) {
	tenant, err := s.tenantSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProfile(tenant)})
}

type updateSettingsRequest struct {
	Name             *string `json:"name"`
	AdminName        *string `json:"admin_name"`
	AdminPassword    *string `json:"admin_password"`
	SecurityQuestion *string `json:"security_question"`
	SecurityAnswer   *string `json:"security_answer"`
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.UpdateSettings(c.Request.Context(), tenantdomain.UpdateSettingsRequest{
		Name:             req.Name,
		AdminName:        req.AdminName,
		AdminPassword:    req.AdminPassword,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProfile(tenant)})
}
