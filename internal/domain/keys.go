package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	LabelIDC             = "IDC"
	LabelNetPartition    = "NetPartition"
	LabelPhysicalMachine = "PhysicalMachine"
	LabelHostMachine     = "HostMachine"
	LabelVirtualMachine  = "VirtualMachine"
	LabelApp             = "App"
)

// knownLabels 允许拼进 Cypher 的标签，防止外部输入注入。
var knownLabels = map[string]struct{}{
	LabelIDC:             {},
	LabelNetPartition:    {},
	LabelPhysicalMachine: {},
	LabelHostMachine:     {},
	LabelVirtualMachine:  {},
	LabelApp:             {},
}

// ValidateLabels 校验标签是否都在白名单内。
func ValidateLabels(labels []string) error {
	for _, l := range labels {
		if _, ok := knownLabels[l]; !ok {
			return fmt.Errorf("未知的节点标签: %q", l)
		}
	}
	return nil
}

// LabelPattern 根据标签集合拼成 Cypher 模板所需的字符串，如 ":A:B"。
func LabelPattern(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return ":" + strings.Join(sorted, ":")
}
