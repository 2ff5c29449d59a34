package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/transeast/tripmaster-backend/internal/models"
	"github.com/transeast/tripmaster-backend/pkg/utils"
)

type LoginInput struct {
	ID       string `json:"id" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

// Login checks the submitted pair against the static operator table. Both
// the unknown-id and wrong-passcode paths return the same 401 body, so the
// response does not reveal which ids exist.
func Login(accounts models.AccountTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		account := accounts.Find(input.ID)
		if account == nil {
			c.JSON(401, gin.H{"error": "Invalid Access Credentials"})
			return
		}

		if err := account.CheckPasscode(input.Passcode); err != nil {
			c.JSON(401, gin.H{"error": "Invalid Access Credentials"})
			return
		}

		token, err := utils.GenerateToken(account.ID, account.Capabilities)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"operator": gin.H{
				"id":           account.ID,
				"capabilities": account.Capabilities,
			},
		})
	}
}

// Session echoes the authenticated operator, letting a client restore its
// state after a reload without re-prompting for credentials.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		capabilities, _ := c.Get("capabilities")
		c.JSON(200, gin.H{
			"operator": gin.H{
				"id":           c.GetString("operatorId"),
				"capabilities": capabilities,
			},
		})
	}
}
