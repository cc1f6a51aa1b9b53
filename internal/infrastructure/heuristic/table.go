package heuristic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTable returns the built-in keyword rules. Specific rules come
// before generic ones because matching stops at the first hit.
func DefaultTable() Table {
	return Table{
		Organizations: []Keyword{
			{Match: "国民健康保険", Label: "国民健康保険団体連合会"},
			{Match: "国保連", Label: "国民健康保険団体連合会"},
			{Match: "支払基金", Label: "社会保険診療報酬支払基金"},
			{Match: "社会保険", Label: "社会保険診療報酬支払基金"},
			{Match: "厚生労働省", Label: "厚生労働省"},
			{Match: "厚労省", Label: "厚生労働省"},
			{Match: "楽天", Label: "楽天"},
			{Match: "rakuten", Label: "楽天"},
			{Match: "アマゾン", Label: "Amazon"},
			{Match: "amazon", Label: "Amazon"},
			{Match: "ソフトバンク", Label: "ソフトバンク"},
			{Match: "softbank", Label: "ソフトバンク"},
			{Match: "ドコモ", Label: "NTTドコモ"},
			{Match: "docomo", Label: "NTTドコモ"},
			{Match: "年金機構", Label: "日本年金機構"},
			{Match: "国税庁", Label: "国税庁"},
			{Match: "税務署", Label: "税務署"},
			{Match: "市役所", Label: "市役所"},
		},
		DocumentTypes: []Keyword{
			{Match: "診療報酬明細", Label: "診療報酬明細書"},
			{Match: "医療費通知", Label: "医療費通知"},
			{Match: "返戻", Label: "返戻内訳書"},
			{Match: "増減点", Label: "増減点連絡書"},
			{Match: "保険証", Label: "保険証"},
			{Match: "診断書", Label: "診断書"},
			{Match: "処方箋", Label: "処方箋"},
			{Match: "請求書", Label: "請求書"},
			{Match: "invoice", Label: "請求書"},
			{Match: "領収書", Label: "領収書"},
			{Match: "receipt", Label: "領収書"},
			{Match: "見積", Label: "見積書"},
			{Match: "estimate", Label: "見積書"},
			{Match: "契約", Label: "契約書"},
			{Match: "contract", Label: "契約書"},
			{Match: "明細", Label: "明細書"},
			{Match: "通知", Label: "通知書"},
			{Match: "notice", Label: "通知書"},
		},
	}
}

// LoadTable reads a YAML keyword table, allowing deployments to override
// the built-in rules without a rebuild.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read classifier table: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return Table{}, fmt.Errorf("parse classifier table: %w", err)
	}
	if len(table.Organizations) == 0 && len(table.DocumentTypes) == 0 {
		return Table{}, fmt.Errorf("classifier table %s contains no rules", path)
	}
	return table, nil
}
