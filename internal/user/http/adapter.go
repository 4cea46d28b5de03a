package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Header names echoed on every user response.
const (
	HeaderCorrelationID = "X-Correlation-Id"
	HeaderRequestID     = "X-Request-Id"
)

// AdaptRoute binds a Controller to a gin route. Successful responses are written
// as {"value": ...}, failures as {"error": ...}.
func AdaptRoute(controller Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(HeaderCorrelationID, c.GetHeader(HeaderCorrelationID))
		c.Header(HeaderRequestID, c.GetHeader(HeaderRequestID))

		params := make(map[string]string, len(c.Params))
		for _, param := range c.Params {
			params[param.Key] = param.Value
		}

		req := Request{
			Body:    readBody(c),
			Params:  params,
			Query:   c.Request.URL.Query(),
			Headers: c.Request.Header,
		}

		res := controller.Handle(c.Request.Context(), req)
		if res.Status < http.StatusBadRequest {
			c.JSON(res.Status, gin.H{"value": res.Value})
			return
		}
		c.JSON(res.Status, gin.H{"error": res.Error})
	}
}

// readBody decodes a JSON body. Empty or malformed bodies yield nil.
func readBody(c *gin.Context) any {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		return nil
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	return body
}
