package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/models"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}

		token, err := models.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token}})
	}
}

func registerUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewUser
		if !bindJSON(c, &req) {
			return
		}

		user, err := models.CreateUser(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": user})
	}
}

func createCollaboratorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewJobCollaborator
		if !bindJSON(c, &req) {
			return
		}

		collaborator, err := models.CreateJobCollaborator(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": collaborator})
	}
}

func deleteCollaboratorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		collaborator, err := models.DeleteJobCollaborator(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": collaborator})
	}
}

func listCollaboratorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := pathID(c, "jobId")
		if !ok {
			return
		}

		collaborators, err := models.ListJobCollaborators(c.Request.Context(), jobId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": collaborators})
	}
}
