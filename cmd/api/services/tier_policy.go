package services

import (
	"sort"
	"strings"

	"yt-insight/config"
)

const (
	TierFree    = "free"
	TierPro     = "pro"
	TierPremium = "premium"
)

// Tier 는 구독 등급별 사용 한도다.
type Tier struct {
	Name        string
	MaxComments int
}

var defaultTiers = map[string]Tier{
	TierFree:    {Name: TierFree, MaxComments: 100},
	TierPro:     {Name: TierPro, MaxComments: 500},
	TierPremium: {Name: TierPremium, MaxComments: 1000},
}

// TierPolicy 는 요청자의 등급을 수집 한도로 변환한다. 알 수 없는 등급은 free 로 취급한다.
type TierPolicy struct {
	tiers map[string]Tier
}

// NewTierPolicy 는 기본 등급표에 config 의 tiers 설정을 덮어쓴다. max_comments 가 0 이하인 항목은 무시한다.
func NewTierPolicy(overrides map[string]config.TierConfig) *TierPolicy {
	tiers := make(map[string]Tier, len(defaultTiers)+len(overrides))
	for k, v := range defaultTiers {
		tiers[k] = v
	}
	for name, tc := range overrides {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || tc.MaxComments <= 0 {
			continue
		}
		tiers[name] = Tier{Name: name, MaxComments: tc.MaxComments}
	}
	return &TierPolicy{tiers: tiers}
}

func (p *TierPolicy) Resolve(name string) Tier {
	if t, ok := p.tiers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return p.tiers[TierFree]
}

// List 는 한도 오름차순 등급 목록이다.
func (p *TierPolicy) List() []Tier {
	out := make([]Tier, 0, len(p.tiers))
	for _, t := range p.tiers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxComments == out[j].MaxComments {
			return out[i].Name < out[j].Name
		}
		return out[i].MaxComments < out[j].MaxComments
	})
	return out
}
