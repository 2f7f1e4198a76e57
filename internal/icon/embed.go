package icon

import _ "embed"

// emoji.json 是随应用打包的只读图标资源，运行期不会修改
//
//go:embed emoji.json
var emojiData []byte
