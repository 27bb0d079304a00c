package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/anubclao/Edueat/internal/model"
)

var (
	ErrWizardStepOutOfRange    = errors.New("向导步骤超出范围")
	ErrWizardOptionUnavailable = errors.New("该菜品不在当前步骤的可选范围内")
	ErrWizardSelectionRequired = errors.New("请先选择当前步骤的菜品")
)

// savoryCategoryIDs 选择素食后需要清空的分类
var savoryCategoryIDs = map[string]bool{
	"soup":         true,
	"starter":      true,
	"main":         true,
	"sopa":         true,
	"entrada":      true,
	"plato-fuerte": true,
}

// isVegetarianCategory 素食步骤
func isVegetarianCategory(categoryID string) bool {
	return categoryID == "vegetarian" || categoryID == "vegetariano"
}

// isMainCategory 主菜分类：ID 含 main 或名称含 fuerte
func isMainCategory(categoryID, name string) bool {
	return strings.Contains(categoryID, "main") ||
		strings.Contains(strings.ToLower(name), "fuerte")
}

// mainCategoryID 返回分类列表中的主菜分类 ID，未配置时为空
func mainCategoryID(categories []model.Category) string {
	for _, c := range categories {
		if isMainCategory(c.CategoryID, c.Name) {
			return c.CategoryID
		}
	}
	return ""
}

// applyExclusivity 已选素食时移除汤/前菜/主菜
func applyExclusivity(selections map[string]string) {
	vegetarian := false
	for cat, recipe := range selections {
		if isVegetarianCategory(cat) && recipe != "" {
			vegetarian = true
			break
		}
	}
	if !vegetarian {
		return
	}
	for cat := range selections {
		if savoryCategoryIDs[cat] {
			delete(selections, cat)
		}
	}
}

// WizardStep 向导的一步：一个分类及当天菜单中该分类的菜谱
type WizardStep struct {
	CategoryID string
	Name       string
	Options    []string
}

func (s WizardStep) hasOption(recipeID string) bool {
	for _, id := range s.Options {
		if id == recipeID {
			return true
		}
	}
	return false
}

// Wizard 点餐向导状态机
//
// 步骤按分类 sort_order 排列，每步最多选一个菜谱：
//   - Select 切换当前步骤的选择；在素食步骤选中菜品会清空汤/前菜/主菜
//   - Next 在素食步骤已选时直接进入确认，否则前进；最后一步之后进入确认
//   - Back 后退；第一步后退即退出向导
type Wizard struct {
	steps      []WizardStep
	index      int
	selections map[string]string
	confirming bool
	exited     bool
}

// NewWizard 以已有选择创建向导，从第一步开始
func NewWizard(steps []WizardStep, selections model.SelectionList) *Wizard {
	w := &Wizard{
		steps:      steps,
		selections: make(map[string]string, len(selections)),
	}
	for _, sel := range selections {
		if sel.RecipeID != "" {
			w.selections[sel.CategoryID] = sel.RecipeID
		}
	}
	return w
}

// Goto 跳转到指定步骤（无状态接口恢复现场时使用）
func (w *Wizard) Goto(index int) error {
	if index < 0 || (len(w.steps) > 0 && index >= len(w.steps)) || (len(w.steps) == 0 && index != 0) {
		return ErrWizardStepOutOfRange
	}
	w.index = index
	w.confirming = false
	w.exited = false
	return nil
}

// Current 当前步骤；没有步骤时返回 nil
func (w *Wizard) Current() *WizardStep {
	if w.index < 0 || w.index >= len(w.steps) {
		return nil
	}
	return &w.steps[w.index]
}

// Select 切换当前步骤的选择
func (w *Wizard) Select(recipeID string) error {
	step := w.Current()
	if step == nil || !step.hasOption(recipeID) {
		return ErrWizardOptionUnavailable
	}

	if w.selections[step.CategoryID] == recipeID {
		delete(w.selections, step.CategoryID)
		return nil
	}

	w.selections[step.CategoryID] = recipeID
	if isVegetarianCategory(step.CategoryID) {
		for cat := range savoryCategoryIDs {
			delete(w.selections, cat)
		}
	}
	return nil
}

// Next 前进一步或进入确认
func (w *Wizard) Next() error {
	step := w.Current()
	if step == nil {
		w.confirming = true
		return nil
	}

	if isVegetarianCategory(step.CategoryID) {
		if w.selections[step.CategoryID] != "" {
			w.confirming = true
			return nil
		}
		w.advance()
		return nil
	}

	// 有可选菜品的步骤必须先选择
	if len(step.Options) > 0 && w.selections[step.CategoryID] == "" {
		return ErrWizardSelectionRequired
	}
	w.advance()
	return nil
}

func (w *Wizard) advance() {
	if w.index < len(w.steps)-1 {
		w.index++
		return
	}
	w.confirming = true
}

// Back 确认页返回当前步骤；第一步后退则退出
func (w *Wizard) Back() {
	if w.confirming {
		w.confirming = false
		return
	}
	if w.index > 0 {
		w.index--
		return
	}
	w.exited = true
}

func (w *Wizard) Step() int { return w.index }

func (w *Wizard) Confirming() bool { return w.confirming }

func (w *Wizard) Exited() bool { return w.exited }

// Selections 按步骤顺序输出当前选择
func (w *Wizard) Selections() model.SelectionList {
	out := make(model.SelectionList, 0, len(w.selections))
	seen := make(map[string]bool, len(w.steps))
	for _, step := range w.steps {
		seen[step.CategoryID] = true
		if id := w.selections[step.CategoryID]; id != "" {
			out = append(out, model.SelectionItem{CategoryID: step.CategoryID, RecipeID: id})
		}
	}
	// 不属于任何步骤的选择原样保留
	var extra []string
	for cat := range w.selections {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	for _, cat := range extra {
		out = append(out, model.SelectionItem{CategoryID: cat, RecipeID: w.selections[cat]})
	}
	return out
}
