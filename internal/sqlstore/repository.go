package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"inbatch/internal/batch"
	"inbatch/internal/domain"

	"gorm.io/gorm"
)

// 每个操作在 registry 中单独登记，批大小可分别配置。
const (
	OpFindAssetNamesByIDs = "FindAssetNamesByIDs"
	OpCountAssetsByIDs    = "CountAssetsByIDs"
	OpFindAssetsByIDs     = "FindAssetsByIDs"
	OpDeleteAssetsByIDs   = "DeleteAssetsByIDs"
	OpCreateAssets        = "CreateAssets"
)

// Operations 返回本仓储登记的全部操作名。
func Operations() []string {
	return []string{OpFindAssetNamesByIDs, OpCountAssetsByIDs, OpFindAssetsByIDs, OpDeleteAssetsByIDs, OpCreateAssets}
}

// AssetRepository 提供按 id 列表查询资产的能力。
// id 列表超过批大小时拆成多条 IN 查询，避免超出数据库绑定变量上限。
type AssetRepository struct {
	db       *gorm.DB
	registry *batch.Registry
}

// NewAssetRepository 创建仓储并登记批量操作。
func NewAssetRepository(db *gorm.DB, registry *batch.Registry) (*AssetRepository, error) {
	if db == nil {
		return nil, errors.New("db 未初始化")
	}
	if registry == nil {
		registry = batch.NewRegistry(nil)
	}
	r := &AssetRepository{db: db, registry: registry}

	ids := []batch.Param{{Name: "idList", Alias: "ids"}}
	ops := []batch.Operation{
		{Name: OpFindAssetNamesByIDs, Params: ids, Invoke: r.findNames},
		{Name: OpCountAssetsByIDs, Params: []batch.Param{{Name: "kind"}, {Name: "ids"}}, Invoke: r.count},
		{Name: OpFindAssetsByIDs, Params: ids, Invoke: r.findAssets},
		{Name: OpDeleteAssetsByIDs, Params: ids, Invoke: r.deleteAssets},
	}
	for _, op := range ops {
		op.Config = batch.Config{TargetParameter: "ids"}
		if err := registry.Register(op); err != nil {
			return nil, err
		}
	}
	if err := registry.Register(batch.Operation{
		Name:   OpCreateAssets,
		Params: []batch.Param{{Name: "assets"}},
		Config: batch.Config{TargetParameter: "assets"},
		Invoke: r.createAssets,
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// Migrate 建表。
func (r *AssetRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.Asset{})
}

// Create 写入资产，按 CreateAssets 的批大小分批插入。
func (r *AssetRepository) Create(ctx context.Context, assets []domain.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	if _, err := r.registry.Call(ctx, OpCreateAssets, assets); err != nil {
		return fmt.Errorf("写入资产失败: %w", err)
	}
	return nil
}

// FindNamesByIDs 返回 id 命中的资产名称，按批次顺序、批内 id 升序。
func (r *AssetRepository) FindNamesByIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	res, err := r.registry.Call(ctx, OpFindAssetNamesByIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("按 id 查询资产名称失败: %w", err)
	}
	return batch.Collect[string](res)
}

// CountByIDs 统计 id 命中且类型为 kind 的资产数，kind 为空时不过滤。
func (r *AssetRepository) CountByIDs(ctx context.Context, kind string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.registry.Call(ctx, OpCountAssetsByIDs, kind, ids)
	if err != nil {
		return 0, fmt.Errorf("按 id 统计资产失败: %w", err)
	}
	return sumInt64(res)
}

// FindByIDs 返回完整资产记录。
func (r *AssetRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	res, err := r.registry.Call(ctx, OpFindAssetsByIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("按 id 查询资产失败: %w", err)
	}
	return batch.Collect[domain.Asset](res)
}

// DeleteByIDs 删除资产，返回影响行数。
func (r *AssetRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.registry.Call(ctx, OpDeleteAssetsByIDs, ids)
	if err != nil {
		return 0, fmt.Errorf("删除资产失败: %w", err)
	}
	return sumInt64(res)
}

// ChunkSize 返回指定操作的生效批大小。
func (r *AssetRepository) ChunkSize(op string) int {
	if cfg, ok := r.registry.Config(op); ok {
		return cfg.ChunkSize
	}
	return batch.DefaultChunkSize
}

func sumInt64(res any) (int64, error) {
	counts, err := batch.Collect[int64](res)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (r *AssetRepository) findNames(ctx context.Context, args batch.Call) (any, error) {
	ids, _ := args[0].([]int64)
	var names []string
	err := r.db.WithContext(ctx).Model(&domain.Asset{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *AssetRepository) count(ctx context.Context, args batch.Call) (any, error) {
	kind, _ := args[0].(string)
	ids, _ := args[1].([]int64)
	q := r.db.WithContext(ctx).Model(&domain.Asset{}).Where("id IN ?", ids)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (r *AssetRepository) findAssets(ctx context.Context, args batch.Call) (any, error) {
	ids, _ := args[0].([]int64)
	var assets []domain.Asset
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *AssetRepository) deleteAssets(ctx context.Context, args batch.Call) (any, error) {
	ids, _ := args[0].([]int64)
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Asset{})
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx.RowsAffected, nil
}

func (r *AssetRepository) createAssets(ctx context.Context, args batch.Call) (any, error) {
	assets, _ := args[0].([]domain.Asset)
	tx := r.db.WithContext(ctx).Create(&assets)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx.RowsAffected, nil
}
