// Package fonts はバックエンドに渡すフォントリソースを管理する。
// フォントの取得そのものは外部（呼び出し側）の責務で、ここでは名前と
// バイト列/パスの対応付けとフォールバックチェーンの解決だけを行う。
package fonts

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Resource はフォントの実体。Bytes があればそれを優先し、なければ Path から読む。
type Resource struct {
	Bytes []byte
	Path  string
}

// Registry はファミリー名とフォントリソースの対応表。並行登録に耐える。
type Registry struct {
	mu        sync.Mutex
	resources map[string]Resource
}

// NewRegistry は空のレジストリを返す。
func NewRegistry() *Registry {
	return &Registry{resources: map[string]Resource{}}
}

// Register は name でフォントを登録する。同名は後勝ち。
func (r *Registry) Register(name string, res Resource) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[name] = res
}

// Load は name のフォントのバイト列を返す。
func (r *Registry) Load(name string) ([]byte, error) {
	r.mu.Lock()
	res, ok := r.resources[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("フォント %s は登録されていません", name)
	}
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("フォント %s にバイト列もパスも設定されていません", name)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, fmt.Errorf("フォント %s の読み込みに失敗しました: %w", name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("フォント %s が空です", name)
	}
	return data, nil
}

// Names は登録済みのファミリー名を返す。順序は保証しない。
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	return names
}

// SplitChain は "NotoSansJP, Inter" のようなフォールバックチェーンを
// ファミリー名の列に分解する。
func SplitChain(chain string) []string {
	parts := strings.Split(chain, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ResolveChain はチェーンの中から最初に読み込みに成功したフォントを返す。
// 1 つも解決できなければ ok=false を返し、呼び出し側がフォールバックを選ぶ。
func (r *Registry) ResolveChain(chain string) (name string, data []byte, ok bool) {
	for _, n := range SplitChain(chain) {
		if d, err := r.Load(n); err == nil {
			return n, d, true
		}
	}
	return "", nil, false
}
