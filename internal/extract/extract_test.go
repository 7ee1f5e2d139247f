package extract

import "testing"

var symbols = []string{"inj", "usdt", "usdc", "wbtc", "weth", "atom", "osmo", "sei", "astro"}

func TestAddress(t *testing.T) {
	addr, ok := Address("check balance of inj1xml3ew93xmjtuf5zwpcl9jzznphte30hvdre9a please")
	if !ok || addr != "inj1xml3ew93xmjtuf5zwpcl9jzznphte30hvdre9a" {
		t.Fatalf("Address = %q, %v", addr, ok)
	}
	if _, ok := Address("no address here"); ok {
		t.Fatal("expected no match")
	}
	if _, ok := Address("inj1short"); ok {
		t.Fatal("expected no match for short payload")
	}
}

func TestTokenListOrderWins(t *testing.T) {
	// Both usdt and inj appear, the list order decides.
	sym, ok := Token("price of USDT versus inj today", []string{"inj", "usdt"})
	if !ok || sym != "inj" {
		t.Fatalf("Token = %q, %v", sym, ok)
	}
}

func TestTokenWordBounded(t *testing.T) {
	if _, ok := Token("I like injective charts", []string{"inj"}); ok {
		t.Fatal("inj should not match inside injective")
	}
	sym, ok := Token("what is INJ worth", []string{"inj"})
	if !ok || sym != "inj" {
		t.Fatalf("Token = %q, %v", sym, ok)
	}
}

func TestAmount(t *testing.T) {
	amount, sym, ok := Amount("please send 2.5 INJ to my friend", symbols)
	if !ok || amount != "2.5" || sym != "inj" {
		t.Fatalf("Amount = %q %q %v", amount, sym, ok)
	}
	if _, _, ok := Amount("send 100 dollars", symbols); ok {
		t.Fatal("unknown symbol should not match")
	}
}

func TestSwap(t *testing.T) {
	req, ok := Swap("can you swap 10 INJ for usdt")
	if !ok {
		t.Fatal("expected swap match")
	}
	if req.Amount != "10" || req.From != "inj" || req.To != "usdt" {
		t.Fatalf("req = %+v", req)
	}

	req, ok = Swap("SWAP 0.5 weth to WBTC now")
	if !ok || req.Amount != "0.5" || req.From != "weth" || req.To != "wbtc" {
		t.Fatalf("req = %+v, %v", req, ok)
	}

	if _, ok := Swap("trade my inj for usdt"); ok {
		t.Fatal("missing amount should not match")
	}
}

func TestWantsSimulation(t *testing.T) {
	cases := map[string]bool{
		"simulate a swap of 1 inj for usdt": true,
		"do a dry run first":                true,
		"just testing the swap":             true,
		"debug this transfer":               true,
		"swap 1 inj for usdt":               false,
	}
	for text, want := range cases {
		if got := WantsSimulation(text); got != want {
			t.Errorf("WantsSimulation(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestProtocol(t *testing.T) {
	known := []string{"helix", "neptune-finance", "hydro", "dojoswap"}
	name, ok := Protocol("what's the TVL of Helix?", known)
	if !ok || name != "helix" {
		t.Fatalf("Protocol = %q, %v", name, ok)
	}
	if _, ok := Protocol("what's the chain TVL?", known); ok {
		t.Fatal("expected no protocol match")
	}
}
