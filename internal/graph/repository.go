package graph

import (
	"context"
	"errors"
	"fmt"

	"inbatch/internal/batch"
	"inbatch/internal/cypher"
	"inbatch/internal/domain"
)

const (
	OpFindNodesByKeys   = "FindNodesByKeys"
	OpDeleteNodesByKeys = "DeleteNodesByKeys"
)

// Operations 返回本仓储登记的全部操作名。
func Operations() []string {
	return []string{OpFindNodesByKeys, OpDeleteNodesByKeys}
}

// NodeRepository 按 cmdb_key 批量查询、删除节点。
// keys 超过批大小时由 batch.Registry 拆成多条 IN 查询执行。
type NodeRepository struct {
	reader   Reader
	writer   Writer
	registry *batch.Registry
}

// NewNodeRepository 创建仓储并在 registry 中登记批量操作。
func NewNodeRepository(reader Reader, writer Writer, registry *batch.Registry) (*NodeRepository, error) {
	if reader == nil || writer == nil {
		return nil, errors.New("graph reader/writer 未初始化")
	}
	if registry == nil {
		registry = batch.NewRegistry(nil)
	}
	r := &NodeRepository{reader: reader, writer: writer, registry: registry}

	if err := registry.Register(batch.Operation{
		Name:   OpFindNodesByKeys,
		Params: []batch.Param{{Name: "labels"}, {Name: "keyList", Alias: "keys"}},
		Config: batch.Config{TargetParameter: "keys"},
		Invoke: r.findByKeys,
	}); err != nil {
		return nil, err
	}
	if err := registry.Register(batch.Operation{
		Name:   OpDeleteNodesByKeys,
		Params: []batch.Param{{Name: "labels"}, {Name: "keyList", Alias: "keys"}},
		Config: batch.Config{TargetParameter: "keys"},
		Invoke: r.deleteByKeys,
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// FindByKeys 返回指定标签下 cmdb_key 命中的节点，顺序与批次顺序一致。
func (r *NodeRepository) FindByKeys(ctx context.Context, labels []string, keys []string) ([]domain.Node, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if err := domain.ValidateLabels(labels); err != nil {
		return nil, err
	}
	res, err := r.registry.Call(ctx, OpFindNodesByKeys, labels, keys)
	if err != nil {
		return nil, fmt.Errorf("按 key 查询节点失败: %w", err)
	}
	return batch.Collect[domain.Node](res)
}

// DeleteByKeys 删除节点及其关系，返回删除的节点数。
func (r *NodeRepository) DeleteByKeys(ctx context.Context, labels []string, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	if err := domain.ValidateLabels(labels); err != nil {
		return 0, err
	}
	res, err := r.registry.Call(ctx, OpDeleteNodesByKeys, labels, keys)
	if err != nil {
		return 0, fmt.Errorf("按 key 删除节点失败: %w", err)
	}
	counts, err := batch.Collect[int](res)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// StaleKeys 返回 last_seen_run_id 早于 retentionRunID 的节点 key。
func (r *NodeRepository) StaleKeys(ctx context.Context, retentionRunID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = batch.DefaultChunkSize * 10
	}
	query, err := cypher.Raw("stale_node_keys.cql")
	if err != nil {
		return nil, err
	}
	records, err := r.reader.RunRead(ctx, query, map[string]any{
		"retention_run_id": retentionRunID,
		"limit":            limit,
	})
	if err != nil {
		return nil, fmt.Errorf("查询过期节点失败: %w", err)
	}
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		if key, ok := rec["cmdb_key"].(string); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// PurgeStale 查询过期节点并分批删除。
func (r *NodeRepository) PurgeStale(ctx context.Context, retentionRunID string, limit int) (int, error) {
	keys, err := r.StaleKeys(ctx, retentionRunID, limit)
	if err != nil {
		return 0, err
	}
	return r.DeleteByKeys(ctx, nil, keys)
}

func (r *NodeRepository) findByKeys(ctx context.Context, args batch.Call) (any, error) {
	labels, _ := args[0].([]string)
	keys, _ := args[1].([]string)
	query, err := cypher.Render("find_nodes_by_keys.cql", map[string]string{"LabelPattern": domain.LabelPattern(labels)})
	if err != nil {
		return nil, err
	}
	records, err := r.reader.RunRead(ctx, query, map[string]any{"keys": keys})
	if err != nil {
		return nil, err
	}
	return toNodes(records), nil
}

func (r *NodeRepository) deleteByKeys(ctx context.Context, args batch.Call) (any, error) {
	labels, _ := args[0].([]string)
	keys, _ := args[1].([]string)
	query, err := cypher.Render("delete_nodes_by_keys.cql", map[string]string{"LabelPattern": domain.LabelPattern(labels)})
	if err != nil {
		return nil, err
	}
	summary, err := r.writer.RunWrite(ctx, query, map[string]any{"keys": keys})
	if err != nil {
		return nil, err
	}
	return summary.NodesDeleted, nil
}

func toNodes(records []map[string]any) []domain.Node {
	nodes := make([]domain.Node, 0, len(records))
	for _, rec := range records {
		node := domain.Node{}
		node.CMDBKey, _ = rec["cmdb_key"].(string)
		if labels, ok := rec["labels"].([]any); ok {
			for _, l := range labels {
				if s, ok := l.(string); ok {
					node.Labels = append(node.Labels, s)
				}
			}
		}
		if props, ok := rec["properties"].(map[string]any); ok {
			node.Properties = props
		}
		nodes = append(nodes, node)
	}
	return nodes
}
