package content

// Curated posts used when generation is unavailable or exhausted. Kept
// short enough to survive the tweet clamp untouched.

var factPool = []string{
	"Did you know? The first NFT was minted in 2014, three years before CryptoKitties made them famous. 🎨",
	"Fun fact: over 60% of successful Web3 brands invested in professional design before their token launch. 💎",
	"Did you know? Solana can process over 65,000 transactions per second, and good branding loads even faster. ⚡",
	"Fun fact: the average person forms an opinion of a website in 50 milliseconds. Design is your first pitch. 👀",
	"Did you know? Color choice alone can raise brand recognition by up to 80%. 🎨",
}

var tipPool = []string{
	"Design tip: consistency beats creativity. Pick one type scale and one palette, then stick to them everywhere. 📐",
	"Web3 tip: your token logo will be shown at 16px on most exchanges. Design for the small size first. 🔍",
	"Design tip: white space is not wasted space. Let your content breathe. 🌬️",
	"Marketing tip: ship your landing page before your whitepaper. People judge the cover first. 🚢",
	"Design tip: dark mode is the default in crypto. Design for it first, not as an afterthought. 🌙",
}

var jokePool = []string{
	"Why did the designer break up with the developer? Too many unresolved margins. 😅",
	"My portfolio is like the crypto market: mostly red, occasionally brilliant. 📉😂",
	"A UX designer walks into a bar. Then into another bar. Then asks if you found the first bar intuitive. 🍺",
	"Comic Sans walks into a crypto conference. Security escorts it out. 🚫",
}

var randomPool = []string{
	"Building in a bear market is the ultimate flex. Keep shipping. 🛠️",
	"Good design is invisible. Great design gets screenshotted. 📸",
	"gm to everyone polishing pixels while the charts do their thing. ☕",
	"Your brand is what people say about you when the chart is down. Make it good. 💬",
}

var promoPool = []string{
	"DesignFi Studio crafts full brand identities for Web3 projects: logos, sites, and launch assets. DM us to get started. 🎨",
	"Launching a token? Your visuals should look as solid as your contract. DesignFi Studio can help. 🚀",
	"From pitch deck to mainnet: DesignFi Studio handles the design so you can handle the code. 🤝",
}

// fallbackPool returns the curated pool for a post kind, defaulting to
// the random pool for unknown kinds.
func fallbackPool(kind PostKind) []string {
	switch kind {
	case KindFact:
		return factPool
	case KindTip:
		return tipPool
	case KindJoke:
		return jokePool
	case KindPromo:
		return promoPool
	default:
		return randomPool
	}
}
