package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/utils"
)

// ContextStudentID is the gin context key holding the authenticated student.
const ContextStudentID = "studentID"

// JWTAuthStudentMiddleware authenticates a student session token. The token
// must validate and its hash must match the hash stored on the student
// record, so a revoked session dies even if the JWT itself is still within
// its lifetime. Verified hashes are cached briefly in Redis to keep booking
// traffic off the students collection.
func JWTAuthStudentMiddleware(repo studentRepo.StudentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		studentID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || studentID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "insufficient authorization"})
			return
		}

		tokenHash := utils.HashToken(tokenString)
		if !verifyTokenHash(c.Request.Context(), repo, studentID, tokenHash) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session expired or revoked"})
			return
		}

		c.Set(ContextStudentID, studentID)
		c.Next()
	}
}

func verifyTokenHash(ctx context.Context, repo studentRepo.StudentRepository, studentID, tokenHash string) bool {
	cache := utils.GetCacheClient()
	cacheKey := utils.AuthCachePrefix + studentID

	if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		return cached == tokenHash
	}

	rec, err := repo.GetByIDWithProjection(studentID, bson.M{"tokenHash": 1})
	if err != nil || rec == nil || rec.TokenHash == "" {
		return false
	}

	cache.Set(ctx, cacheKey, rec.TokenHash, utils.AuthCacheTTL)
	return rec.TokenHash == tokenHash
}
