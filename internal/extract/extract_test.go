package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "keyword with colon",
			text:  "口令是:hongbao123, 快来领",
			want:  "hongbao123",
			found: true,
		},
		{
			name:  "keyword directly followed by digits",
			text:  "支付宝口令红包31097309，大家关注",
			want:  "31097309",
			found: true,
		},
		{
			name: "no password present",
			text: "谁有口令红包呀，求一个",
		},
		{
			name:  "full-width colon folded",
			text:  "口令：test_abc。",
			want:  "test_abc",
			found: true,
		},
		{
			name:  "english keyword",
			text:  "new packet! password: gift2024!!",
			want:  "gift2024",
			found: true,
		},
		{
			name:  "alipay keyword with colon",
			text:  "支付宝: 发财88 了解一下",
			want:  "发财88",
			found: true,
		},
		{
			name:  "bracketed password",
			text:  "红包密码【abc123】快抢",
			want:  "abc123",
			found: true,
		},
		{
			name:  "cjk brackets",
			text:  "口令「恭喜发财」先到先得",
			want:  "恭喜发财",
			found: true,
		},
		{
			name:  "phrase with lead-in text",
			text:  "今晚八点准时开抢，口令红包见置顶: 888999",
			want:  "888999",
			found: true,
		},
		{
			name:  "bare long number",
			text:  "  31097309  ",
			want:  "31097309",
			found: true,
		},
		{
			name: "bare number too short",
			text: "1234567",
		},
		{
			name:  "keyword authorizes short numeric",
			text:  "口令: 12345",
			want:  "12345",
			found: true,
		},
		{
			name:  "url tail does not bleed into capture",
			text:  "口令:abc123 https://t.co/xyzxyz",
			want:  "abc123",
			found: true,
		},
		{
			name:  "trailing punctuation excluded",
			text:  "password:lucky_888!!!",
			want:  "lucky_888",
			found: true,
		},
		{
			name: "denylisted capture falls through all rules",
			text: "口令:红包 已经派完了",
		},
		{
			name: "denylisted dm-me word",
			text: "口令:私信 我单独发你",
		},
		{
			name:  "denylist is rule-local not global",
			text:  "口令:已发 支付宝口令红包668866 still live",
			want:  "668866",
			found: true,
		},
		{
			name: "empty text",
			text: "",
		},
		{
			name: "number embedded in longer text is not bare",
			text: "转发 31097309 抽奖",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Password(tt.text)
			if found != tt.found {
				t.Fatalf("Password(%q) found = %v, want %v (got %q)", tt.text, found, tt.found, got)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Password(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestPasswordRulePriority(t *testing.T) {
	// The keyword-colon rule and the keyword-digits rule both match but
	// capture different candidates; the earlier rule must win.
	text := "口令:abc 支付宝口令红包123456"
	got, found := Password(text)
	if !found {
		t.Fatal("expected a match")
	}
	if diff := cmp.Diff("abc", got); diff != "" {
		t.Errorf("priority mismatch (-want +got):\n%s", diff)
	}
}

func TestPasswordDeterministic(t *testing.T) {
	text := "口令是:hongbao123, 快来领"
	first, _ := Password(text)
	for i := 0; i < 5; i++ {
		got, _ := Password(text)
		if got != first {
			t.Fatalf("run %d returned %q, first run returned %q", i, got, first)
		}
	}
}
