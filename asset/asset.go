// Copyright 2022-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package asset defines the comparison universe: the tracked funds, the
// one non-traded housing series, the proxy chains that extend each fund's
// history backward, and the static fallback tables used when live data is
// missing or too thin.
package asset

// Cadence is the sampling frequency of an asset's price series
type Cadence string

const (
	Weekly    Cadence = "weekly"
	Quarterly Cadence = "quarterly"
)

// PeriodsPerYear returns the annualization factor for the cadence
func (c Cadence) PeriodsPerYear() float64 {
	if c == Quarterly {
		return 4
	}
	return 52
}

// Backer is one proxy series used to extend an asset's history before its
// inception. Backers are listed nearest-in-time first and chain-spliced in
// order.
type Backer struct {
	Symbol      string
	Description string
	// TotalReturn marks proxies that include distributions. Price-only
	// proxies understate long-run return; the gap is noted, not corrected.
	TotalReturn bool
}

// Asset is one member of the comparison universe
type Asset struct {
	Ticker        string
	Name          string
	Issuer        string
	Index         string
	Category      string
	Description   string
	InceptionDate string
	Cadence       Cadence
	// Static marks assets not fetched from the market-data providers
	// (the housing series comes from its own quarterly source).
	Static bool
	// RentYield is the approximate annual gross rent yield (%) added to
	// price-only returns to approximate total return.
	RentYield float64
	Backers   []Backer
}

// Universe returns the full tracked asset list in presentation order
func Universe() []Asset {
	return []Asset{
		{
			Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Issuer: "State Street",
			Index: "S&P 500", Category: "Large Cap Blend",
			Description:   "Tracks the S&P 500 Index — the benchmark for U.S. large-cap equities and the world's most traded ETF. Inception 1993 — the longest-running U.S. equity ETF.",
			InceptionDate: "1993-01-22", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "VFINX", Description: "Vanguard 500 Fund (total return)", TotalReturn: true},
				{Symbol: "^GSPC", Description: "S&P 500 Index (price only)"},
			},
		},
		{
			Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Issuer: "Vanguard",
			Index: "CRSP US Total Market", Category: "Total Market",
			Description:   "Covers the entire U.S. equity market — large, mid, and small caps — in a single low-cost fund.",
			InceptionDate: "2001-05-24", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "VTSMX", Description: "Vanguard Total Mkt Fund (total return)", TotalReturn: true},
				{Symbol: "VFINX", Description: "Vanguard 500 Fund (total return)", TotalReturn: true},
				{Symbol: "^GSPC", Description: "S&P 500 Index (price only)"},
			},
		},
		{
			Ticker: "QQQ", Name: "Invesco QQQ Trust", Issuer: "Invesco",
			Index: "Nasdaq-100", Category: "Large Cap Growth",
			Description:   "Tracks the Nasdaq-100 Index, heavily weighted toward technology, communication services, and consumer discretionary.",
			InceptionDate: "1999-03-10", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "^IXIC", Description: "Nasdaq Composite (price only, ~0.5% div gap)"},
			},
		},
		{
			Ticker: "IWM", Name: "iShares Russell 2000 ETF", Issuer: "BlackRock",
			Index: "Russell 2000", Category: "Small Cap Blend",
			Description:   "The largest Russell 2000 tracker, providing exposure to ~2,000 U.S. small-cap stocks.",
			InceptionDate: "2000-05-22", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "^RUT", Description: "Russell 2000 (price only, ~1% div gap)"},
			},
		},
		{
			Ticker: "IWD", Name: "iShares Russell 1000 Value ETF", Issuer: "BlackRock",
			Index: "Russell 1000 Value", Category: "Large Cap Value",
			Description:   "Tracks the Russell 1000 Value Index — large-cap U.S. stocks with value characteristics. Chosen over VTV (2004) for 4 extra years of history (inception 2000).",
			InceptionDate: "2000-05-22", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "^DJI", Description: "Dow Jones Ind. Avg (price only, ~2% div gap)"},
			},
		},
		{
			Ticker: "EFA", Name: "iShares MSCI EAFE ETF", Issuer: "BlackRock",
			Index: "MSCI EAFE", Category: "International Developed",
			Description:   "Tracks the MSCI EAFE Index — developed-market equities in Europe, Australasia, and the Far East. Inception 2001 — the longest-running developed international ETF.",
			InceptionDate: "2001-08-14", Cadence: Weekly,
		},
		{
			Ticker: "VEA", Name: "Vanguard FTSE Developed Markets ETF", Issuer: "Vanguard",
			Index: "FTSE Developed All Cap ex US", Category: "International Developed",
			Description:   "Tracks the FTSE Developed All Cap ex US Index — broad developed-market equities outside the U.S. including small caps. Lower expense ratio than EFA. Inception 2007.",
			InceptionDate: "2007-07-20", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "EFA", Description: "iShares MSCI EAFE ETF (adj. close)", TotalReturn: true},
			},
		},
		{
			Ticker: "EEM", Name: "iShares MSCI Emerging Markets ETF", Issuer: "BlackRock",
			Index: "MSCI Emerging Markets", Category: "Emerging Markets",
			Description:   "Tracks the MSCI Emerging Markets Index — China, India, Brazil, Taiwan, South Korea, and more. Chosen over VWO (2005) for 2 extra years of history (inception 2003).",
			InceptionDate: "2003-04-07", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "VEIEX", Description: "Vanguard EM Index Fund (total return)", TotalReturn: true},
			},
		},
		{
			Ticker: "TLT", Name: "iShares 20+ Year Treasury Bond ETF", Issuer: "BlackRock",
			Index: "ICE U.S. Treasury 20+ Year", Category: "Long-Term Treasury",
			Description:   "Exposure to long-duration U.S. Treasury bonds (20+ years). Often negatively correlated with equities during market stress — a classic flight-to-safety asset.",
			InceptionDate: "2002-07-22", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "VUSTX", Description: "Vanguard LT Treasury Fund (total return)", TotalReturn: true},
			},
		},
		{
			Ticker: "GLD", Name: "SPDR Gold Shares", Issuer: "State Street",
			Index: "Gold Spot Price (LBMA)", Category: "Commodity — Gold",
			Description:   "Physically-backed gold ETF. Gold has near-zero long-term correlation with equities and serves as an inflation hedge and safe-haven asset.",
			InceptionDate: "2004-11-18", Cadence: Weekly,
			Backers: []Backer{
				{Symbol: "GC=F", Description: "Gold Futures (no dividends for gold)", TotalReturn: true},
			},
		},
		{
			Ticker: "IYR", Name: "iShares U.S. Real Estate ETF", Issuer: "BlackRock",
			Index: "Dow Jones U.S. Real Estate", Category: "U.S. Real Estate (REITs)",
			Description:   "Tracks the Dow Jones U.S. Real Estate Index — diversified REIT exposure. Chosen over VNQ (2004) for 4 extra years of history (inception 2000).",
			InceptionDate: "2000-06-12", Cadence: Weekly,
		},
		{
			Ticker: "DBC", Name: "Invesco DB Commodity Index ETF", Issuer: "Invesco",
			Index: "DBIQ Optimum Yield Diversified Commodity", Category: "Broad Commodities",
			Description:   "Diversified commodity futures — energy, precious metals, industrial metals, and agriculture. Low correlation to stocks; natural inflation hedge.",
			InceptionDate: "2006-02-03", Cadence: Weekly,
		},
		{
			Ticker: "CPH-RE", Name: "Copenhagen Apartments (price/m² + rent)", Issuer: "Statistics Denmark",
			Index: "Copenhagen Apartment Index", Category: "Real Estate — Copenhagen",
			Description:   "Copenhagen residential apartment prices (price per m²) + estimated ~3.5% annual gross rent yield. Price data from Statistics Denmark / Finance Denmark. Rent yield is an approximation.",
			InceptionDate: "1992-01-01", Cadence: Quarterly, Static: true, RentYield: 3.5,
		},
	}
}

// Tickers returns the universe tickers in presentation order
func Tickers() []string {
	universe := Universe()
	out := make([]string, len(universe))
	for i, a := range universe {
		out[i] = a.Ticker
	}
	return out
}

// Lookup finds an asset by ticker
func Lookup(ticker string) (Asset, bool) {
	for _, a := range Universe() {
		if a.Ticker == ticker {
			return a, true
		}
	}
	return Asset{}, false
}
