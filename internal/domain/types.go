package domain

// Node 是按 cmdb_key 查询得到的图节点。
type Node struct {
	CMDBKey    string         `json:"cmdb_key"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Asset 是关系库中的资产记录。
type Asset struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Kind    string `gorm:"size:64;index" json:"kind"`
	IP      string `gorm:"size:64" json:"ip"`
	CMDBKey string `gorm:"size:128;index" json:"cmdb_key"`
}

// TableName 固定表名。
func (Asset) TableName() string { return "assets" }
