// Package handler binds the services to HTTP routes.
package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const idMismatch = "the id in the URL does not match the id in the request body"

// groupPath returns the matched route up to and including resource, so
// Location headers follow whatever prefix the group was mounted under.
func groupPath(c *gin.Context, resource string) string {
	full := c.FullPath()
	if i := strings.Index(full, resource); i >= 0 {
		return full[:i+len(resource)]
	}
	return resource
}
