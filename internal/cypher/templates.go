package cypher

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.cql
var files embed.FS

// 所有 .cql 在包加载时解析一次，按文件名查找。
var queries = template.Must(template.New("cypher").ParseFS(files, "*.cql"))

// Render 以 data 渲染指定查询模板，用于拼接 label 等无法参数化的片段。
func Render(name string, data any) (string, error) {
	tmpl := queries.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("cypher 模板不存在: %s", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("渲染 cypher 模板 %s 失败: %w", name, err)
	}
	return sb.String(), nil
}

// MustRender 同 Render，失败直接 panic。
func MustRender(name string, data any) string {
	query, err := Render(name, data)
	if err != nil {
		panic(err)
	}
	return query
}

// Raw 返回模板原文，适用于不含模板指令的查询。
func Raw(name string) (string, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("读取 cypher 文件 %s 失败: %w", name, err)
	}
	return string(b), nil
}
