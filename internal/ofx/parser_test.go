package ofx

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/tallyapp/tally/internal/model"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240215120000
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>CHK-001
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240201
<DTEND>20240215
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240203
<TRNAMT>-42.50
<FITID>FIT-1
<NAME>POS PURCHASE GROCERY MART
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240210
<TRNAMT>1500.00
<FITID>FIT-2
<NAME>PAYROLL ACME CORP
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1457.50
<DTASOF>20240215
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()
	entries, err := parser.ParseFile(context.Background(), strings.NewReader(sampleOFX))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	debit := entries[0]
	if debit.Type != model.TypeExpense {
		t.Errorf("debit type = %s, want expense", debit.Type)
	}
	if debit.Amount.Cents != 4250 {
		t.Errorf("debit amount = %d cents, want 4250", debit.Amount.Cents)
	}
	if debit.FitID != "FIT-1" || debit.AccountID != "CHK-001" {
		t.Errorf("debit ids = %s/%s, want FIT-1/CHK-001", debit.FitID, debit.AccountID)
	}
	if debit.Description != "GROCERY MART" {
		t.Errorf("debit description = %q, want prefix-stripped name", debit.Description)
	}

	credit := entries[1]
	if credit.Type != model.TypeIncome {
		t.Errorf("credit type = %s, want income", credit.Type)
	}
	if credit.Amount.Cents != 150000 {
		t.Errorf("credit amount = %d cents, want 150000", credit.Amount.Cents)
	}
}

func TestParser_GetAccounts(t *testing.T) {
	parser := NewParser()
	accounts, err := parser.GetAccounts(context.Background(), strings.NewReader(sampleOFX))
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "CHK-001" {
		t.Errorf("accounts = %v, want [CHK-001]", accounts)
	}
}

func TestRatToCents(t *testing.T) {
	tests := []struct {
		name string
		num  int64
		den  int64
		want int64
	}{
		{name: "whole dollars", num: 15, den: 1, want: 1500},
		{name: "exact cents", num: -4250, den: 100, want: -4250},
		{name: "sub-cent rounds half up", num: 10050, den: 10000, want: 101},
		{name: "sub-cent rounds down", num: 10049, den: 10000, want: 100},
		{name: "negative rounds away from zero", num: -10050, den: 10000, want: -101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ratToCents(big.NewRat(tt.num, tt.den))
			if err != nil {
				t.Fatalf("ratToCents failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ratToCents(%d/%d) = %d, want %d", tt.num, tt.den, got, tt.want)
			}
		})
	}
}

func TestIsGenericDescription(t *testing.T) {
	if !isGenericDescription("DEBIT") || !isGenericDescription("payment") {
		t.Error("generic names should be detected")
	}
	if isGenericDescription("GROCERY MART") {
		t.Error("real merchant names are not generic")
	}
}
