package domain

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKind  Kind
		wantValue string
		wantErr   bool
	}{
		{name: "status", line: "status", wantKind: KindStatus},
		{name: "scan", line: "scan", wantKind: KindScan},
		{name: "startbot", line: "startbot", wantKind: KindStartBot},
		{name: "stopbot", line: "stopbot", wantKind: KindStopBot},
		{name: "config", line: "config", wantKind: KindConfig},
		{name: "balance", line: "balance", wantKind: KindBalance},
		{name: "help", line: "help", wantKind: KindHelp},
		{name: "setprofit", line: "setprofit 10", wantKind: KindSetProfit, wantValue: "10"},
		{name: "setgas", line: "setgas 60", wantKind: KindSetGas, wantValue: "60"},
		{name: "setslippage", line: "setslippage 0.5", wantKind: KindSetSlippage, wantValue: "0.5"},
		{name: "uppercase_command_word", line: "STATUS", wantKind: KindStatus},
		{name: "mixed_case_with_arg", line: "SetGas 60", wantKind: KindSetGas, wantValue: "60"},
		{name: "surrounding_whitespace", line: "  status  ", wantKind: KindStatus},
		{name: "decimal_arg", line: "setprofit 2.75", wantKind: KindSetProfit, wantValue: "2.75"},

		{name: "empty_line", line: "", wantErr: true},
		{name: "whitespace_only", line: "   ", wantErr: true},
		{name: "unknown_command", line: "frobnicate", wantErr: true},
		{name: "status_with_argument", line: "status now", wantErr: true},
		{name: "setprofit_missing_arg", line: "setprofit", wantErr: true},
		{name: "setprofit_extra_args", line: "setprofit 1 2", wantErr: true},
		{name: "setgas_non_numeric", line: "setgas fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) should fail", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.line, err)
			}
			if cmd.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", cmd.Kind, tt.wantKind)
			}
			if tt.wantValue != "" && cmd.Value.String() != tt.wantValue {
				t.Errorf("value = %s, want %s", cmd.Value, tt.wantValue)
			}
		})
	}
}

func TestCommand_HasValue(t *testing.T) {
	withValue := []Kind{KindSetProfit, KindSetGas, KindSetSlippage}
	for _, k := range withValue {
		if !(Command{Kind: k}).HasValue() {
			t.Errorf("%s should carry a value", k)
		}
	}
	if (Command{Kind: KindStatus}).HasValue() {
		t.Error("status carries no value")
	}
}
