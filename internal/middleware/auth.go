package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clearpay-api/internal/config"
	"clearpay-api/internal/constant"
	"clearpay-api/internal/utils"
)

const uidKey = "auth_uid"

// authSkewSec bounds X-Timestamp staleness; outside it the signature is
// considered a replay.
const authSkewSec = 300

// AuthUser verifies the identity headers set by the web frontend gateway:
// X-User-ID, X-Timestamp (unix seconds) and
// X-Signature = hex(hmac-sha256(secret, uid|ts|path)).
// Caller identity only ever comes from here, never from a request body.
func AuthUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uidStr := c.GetHeader("X-User-ID")
		tsStr := c.GetHeader("X-Timestamp")
		sig := c.GetHeader("X-Signature")
		if uidStr == "" || tsStr == "" || sig == "" {
			c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}

		uid, err := strconv.ParseUint(uidStr, 10, 64)
		if err != nil || uid == 0 {
			c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}
		if skew := time.Now().Unix() - ts; skew > authSkewSec || skew < -authSkewSec {
			c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}

		mac := hmac.New(sha256.New, []byte(config.C.Security.HMACSecret))
		mac.Write([]byte(uidStr + "|" + tsStr + "|" + c.Request.URL.Path))
		want := hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(want), []byte(sig)) {
			c.JSON(http.StatusUnauthorized, utils.Error(constant.CodeUnauthorized))
			c.Abort()
			return
		}

		c.Set(uidKey, uid)
		c.Next()
	}
}

// CallerUID returns the authenticated user id, 0 when unauthenticated.
func CallerUID(c *gin.Context) uint64 {
	if v, ok := c.Get(uidKey); ok {
		if uid, ok := v.(uint64); ok {
			return uid
		}
	}
	return 0
}
