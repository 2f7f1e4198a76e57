package icon

import (
	"encoding/json"
	"log"
	"sync"
)

// Item 描述图标目录中的一个可选条目
type Item struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

var (
	loadOnce sync.Once
	items    []Item
)

// Catalog 返回内置图标目录，只在首次调用时解析一次
// 资源损坏时降级为空列表并记录日志，不中断进程
func Catalog() []Item {
	loadOnce.Do(func() {
		if err := json.Unmarshal(emojiData, &items); err != nil {
			log.Printf("parse icon catalog failed: %v", err)
			items = []Item{}
		}
	})
	return items
}

// Categories 返回目录中出现过的分类标签，保持首次出现的顺序
func Categories() []string {
	return categoriesOf(Catalog())
}

// 目录为空时返回空切片而不是 nil，序列化结果保持 []
func categoriesOf(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	categories := []string{}
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// Find 根据字形查找条目
func Find(emoji string) (Item, bool) {
	for _, item := range Catalog() {
		if item.Emoji == emoji {
			return item, true
		}
	}
	return Item{}, false
}
