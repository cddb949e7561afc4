package router

import (
	"context"
	"net/http"

	"inbatch/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NodeFinder 按 cmdb_key 查询节点。
type NodeFinder interface {
	FindByKeys(ctx context.Context, labels []string, keys []string) ([]domain.Node, error)
}

// AssetFinder 按 id 查询资产。
type AssetFinder interface {
	FindNamesByIDs(ctx context.Context, ids []int64) ([]string, error)
	CountByIDs(ctx context.Context, kind string, ids []int64) (int64, error)
}

// LookupHandler 负责批量查询相关的 HTTP 请求。
type LookupHandler struct {
	nodes  NodeFinder
	assets AssetFinder
	logger *zap.Logger
}

// NewLookupHandler 构建一个新的 LookupHandler，nodes/assets 可为 nil，对应路由返回 503。
func NewLookupHandler(nodes NodeFinder, assets AssetFinder, logger *zap.Logger) *LookupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupHandler{nodes: nodes, assets: assets, logger: logger}
}

// RegisterRoutes 将查询路由注册到给定的路由组。
func (h *LookupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/nodes/lookup", h.handleNodeLookup)
	rg.POST("/assets/names", h.handleAssetNames)
	rg.POST("/assets/count", h.handleAssetCount)
}

type nodeLookupRequest struct {
	Labels []string `json:"labels"`
	Keys   []string `json:"keys"`
}

type nodeLookupResponse struct {
	Requested int           `json:"requested"`
	Nodes     []domain.Node `json:"nodes"`
}

type assetRequest struct {
	Kind string  `json:"kind"`
	IDs  []int64 `json:"ids"`
}

type assetNamesResponse struct {
	Requested int      `json:"requested"`
	Names     []string `json:"names"`
}

type assetCountResponse struct {
	Requested int   `json:"requested"`
	Count     int64 `json:"count"`
}

func (h *LookupHandler) handleNodeLookup(c *gin.Context) {
	if h.nodes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph repository not configured"})
		return
	}
	var req nodeLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if len(req.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keys payload is empty"})
		return
	}
	nodes, err := h.nodes.FindByKeys(c.Request.Context(), req.Labels, req.Keys)
	if err != nil {
		h.logger.Error("node lookup failed", zap.Int("keys", len(req.Keys)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nodeLookupResponse{Requested: len(req.Keys), Nodes: nodes})
}

func (h *LookupHandler) handleAssetNames(c *gin.Context) {
	req, ok := h.bindAssetRequest(c)
	if !ok {
		return
	}
	names, err := h.assets.FindNamesByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		h.logger.Error("asset name lookup failed", zap.Int("ids", len(req.IDs)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assetNamesResponse{Requested: len(req.IDs), Names: names})
}

func (h *LookupHandler) handleAssetCount(c *gin.Context) {
	req, ok := h.bindAssetRequest(c)
	if !ok {
		return
	}
	n, err := h.assets.CountByIDs(c.Request.Context(), req.Kind, req.IDs)
	if err != nil {
		h.logger.Error("asset count failed", zap.Int("ids", len(req.IDs)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assetCountResponse{Requested: len(req.IDs), Count: n})
}

func (h *LookupHandler) bindAssetRequest(c *gin.Context) (assetRequest, bool) {
	var req assetRequest
	if h.assets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "asset repository not configured"})
		return req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return req, false
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids payload is empty"})
		return req, false
	}
	return req, true
}
