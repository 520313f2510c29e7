package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterDonationRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDonationRoutes(r, nil, nil, nil, nil, nil)
	RegisterHealthRoutes(r)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /intent/create"))
	require.True(t, contains("POST /intent/webhook"))
	require.True(t, contains("POST /order/create"))
	require.True(t, contains("POST /order/confirm"))
	require.True(t, contains("GET /donations"))
	require.True(t, contains("GET /donations/stats"))
	require.True(t, contains("GET /health"))
}
