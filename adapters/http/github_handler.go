package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	githubUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/github"
)

type GitHubHandler struct {
	fetchReposUC *githubUC.FetchReposUseCase
}

func NewGitHubHandler(uc *githubUC.FetchReposUseCase) *GitHubHandler {
	return &GitHubHandler{fetchReposUC: uc}
}

// ListRepos relays the user's five oldest-created repositories. When
// GitHub answers with anything but 200 the upstream body is passed along
// next to the not-found message.
func (h *GitHubHandler) ListRepos(c *gin.Context) {
	out, err := h.fetchReposUC.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	if !out.Found {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No github profile found", "upstream": out.Upstream})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out.Repos)
}
