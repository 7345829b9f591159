package service

import (
	"fmt"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
)

// ── 申领策略校验（纯函数，无副作用） ──
//
// 规则按序执行且不短路，所有消息按产生顺序收集；
// 仅"失效类"消息使 IsValid 置 false，警告不影响结果。
// 调用方自行决定拦截提交还是仅提示。

// 策略常量
const (
	sessionHoursWarnLimit = 8   // 单次课时超限仅警告
	monthlyHoursLimit     = 160 // 月度课时上限
	minSessions           = 1
	maxSessions           = 20
)

// rateBand 院系时薪区间
type rateBand struct {
	Min int
	Max int
}

// facultyRateBands 院系时薪区间表；未配置的院系不受此规则约束
var facultyRateBands = map[string]rateBand{
	"Science":         {Min: 100, Max: 500},
	"Engineering":     {Min: 120, Max: 600},
	"Business":        {Min: 150, Max: 700},
	"Arts":            {Min: 80, Max: 400},
	"Health Sciences": {Min: 130, Max: 650},
}

// ValidateClaim 按业务策略校验申领单
func ValidateClaim(c *model.Claim) dto.ValidationResult {
	result := dto.ValidationResult{IsValid: true, Messages: []string{}}

	// 规则 1: 单次课时超过 8 小时 — 仅警告
	if c.NumberOfHours > sessionHoursWarnLimit {
		result.Messages = append(result.Messages,
			"Warning: Hours exceed typical 8-hour session limit")
	}

	// 规则 2: 院系时薪区间
	if band, ok := facultyRateBands[c.FacultyName]; ok {
		if c.AmountOfRate < band.Min {
			result.Messages = append(result.Messages,
				fmt.Sprintf("Rate below faculty minimum (R%d)", band.Min))
			result.IsValid = false
		}
		if c.AmountOfRate > band.Max {
			result.Messages = append(result.Messages,
				fmt.Sprintf("Rate above faculty maximum (R%d)", band.Max))
			result.IsValid = false
		}
	}

	// 规则 3: 月度课时上限
	if c.NumberOfHours > monthlyHoursLimit {
		result.Messages = append(result.Messages,
			fmt.Sprintf("Hours exceed monthly maximum of %d", monthlyHoursLimit))
		result.IsValid = false
	}

	// 规则 4: 课次范围
	if c.NumberOfSessions < minSessions || c.NumberOfSessions > maxSessions {
		result.Messages = append(result.Messages,
			fmt.Sprintf("Invalid number of sessions (%d-%d allowed)", minSessions, maxSessions))
		result.IsValid = false
	}

	return result
}
