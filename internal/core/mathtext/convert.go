// Package mathtext renders question text that may contain TeX-style math
// markup for display in a terminal.
package mathtext

import (
	"regexp"
	"sort"
	"strings"
)

var symbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι",
	"kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "pi": "π",
	"rho": "ρ", "sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "φ",
	"varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	"infty": "∞", "leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠",
	"ne": "≠", "approx": "≈", "equiv": "≡", "sim": "∼", "propto": "∝",
	"times": "×", "cdot": "·", "div": "÷", "pm": "±", "mp": "∓",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"Leftarrow": "⇐", "iff": "⇔", "Leftrightarrow": "⇔", "mapsto": "↦",
	"in": "∈", "notin": "∉", "subset": "⊂", "subseteq": "⊆", "supset": "⊃",
	"supseteq": "⊇", "cup": "∪", "cap": "∩", "emptyset": "∅", "varnothing": "∅",
	"forall": "∀", "exists": "∃", "neg": "¬", "land": "∧", "lor": "∨",
	"wedge": "∧", "vee": "∨", "sum": "∑", "prod": "∏", "int": "∫",
	"oint": "∮", "partial": "∂", "nabla": "∇", "ldots": "…", "cdots": "⋯",
	"dots": "…", "circ": "∘", "deg": "°", "perp": "⊥", "parallel": "∥",
	"angle": "∠", "langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋",
	"lceil": "⌈", "rceil": "⌉", "prime": "′", "hbar": "ℏ", "ell": "ℓ",

	"sin": "sin", "cos": "cos", "tan": "tan", "log": "log", "ln": "ln",
	"exp": "exp", "lim": "lim", "max": "max", "min": "min", "det": "det",
	"sup": "sup", "inf": "inf", "arg": "arg", "dim": "dim", "ker": "ker",

	"quad": "  ", "qquad": "    ", ",": " ", ";": " ", ":": " ", "!": "",
	"{": "{", "}": "}", "%": "%", "$": "$", "_": "_", "&": "&", "#": "#",
	"left": "", "right": "", "displaystyle": "",
}

var blackboard = map[rune]string{
	'R': "ℝ", 'N': "ℕ", 'Z': "ℤ", 'Q': "ℚ", 'C': "ℂ", 'P': "ℙ", 'E': "𝔼",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶',
	'7': '⁷', '8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽',
	')': '⁾', 'n': 'ⁿ', 'i': 'ⁱ', 'T': 'ᵀ', 'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ',
	'd': 'ᵈ', 'e': 'ᵉ', 'k': 'ᵏ', 'm': 'ᵐ', 'x': 'ˣ', 'y': 'ʸ', 't': 'ᵗ',
	' ': ' ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆',
	'7': '₇', '8': '₈', '9': '₉', '+': '₊', '-': '₋', '=': '₌', '(': '₍',
	')': '₎', 'a': 'ₐ', 'e': 'ₑ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'n': 'ₙ',
	'o': 'ₒ', 'x': 'ₓ', 't': 'ₜ', 'm': 'ₘ', 'p': 'ₚ', 's': 'ₛ', ' ': ' ',
}

var (
	// $$..$$, \[..\], \(..\), $..$ in that order of precedence.
	mathSpan = regexp.MustCompile(`\$\$(.+?)\$\$|\\\[(.+?)\\\]|\\\((.+?)\\\)|\$([^$]+?)\$`)
	command  = regexp.MustCompile(`\\([A-Za-z]+|[,;:!{}%$_&#])`)
)

// commandNames sorted longest first so "\leq" wins over "\le".
var commandNames = func() []string {
	names := make([]string, 0, len(symbols))
	for k := range symbols {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}()

// Convert replaces every math span in text with a Unicode approximation.
// Text outside math spans is returned unchanged.
func Convert(text string) string {
	return mathSpan.ReplaceAllStringFunc(text, func(span string) string {
		m := mathSpan.FindStringSubmatch(span)
		for _, group := range m[1:] {
			if group != "" {
				return ConvertExpr(group)
			}
		}
		return span
	})
}

// ConvertExpr converts a bare math expression (no delimiters).
func ConvertExpr(expr string) string {
	s := expr
	s = replaceGroupCommand(s, "text", func(arg string) string { return arg })
	s = replaceGroupCommand(s, "mathrm", func(arg string) string { return arg })
	s = replaceGroupCommand(s, "mathbf", func(arg string) string { return arg })
	s = replaceGroupCommand(s, "operatorname", func(arg string) string { return arg })
	s = replaceGroupCommand(s, "mathbb", func(arg string) string {
		var b strings.Builder
		for _, r := range arg {
			if bb, ok := blackboard[r]; ok {
				b.WriteString(bb)
			} else {
				b.WriteRune(r)
			}
		}
		return b.String()
	})
	s = replaceFrac(s)
	s = replaceGroupCommand(s, "sqrt", func(arg string) string {
		if isAtom(arg) {
			return "√" + arg
		}
		return "√(" + arg + ")"
	})
	s = replaceCommands(s)
	s = replaceScripts(s, '^', superscripts)
	s = replaceScripts(s, '_', subscripts)
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func replaceCommands(s string) string {
	return command.ReplaceAllStringFunc(s, func(cmd string) string {
		name := cmd[1:]
		if sym, ok := symbols[name]; ok {
			return sym
		}
		// Unknown command: try a known prefix, e.g. "\leqx".
		for _, known := range commandNames {
			if strings.HasPrefix(name, known) && len(known) > 1 {
				return symbols[known] + name[len(known):]
			}
		}
		return name
	})
}

// replaceGroupCommand rewrites \name{arg} using fn, innermost last.
func replaceGroupCommand(s, name string, fn func(string) string) string {
	prefix := `\` + name + "{"
	for {
		idx := strings.Index(s, prefix)
		if idx < 0 {
			return s
		}
		arg, end, ok := readGroup(s, idx+len(prefix)-1)
		if !ok {
			return s
		}
		s = s[:idx] + fn(arg) + s[end:]
	}
}

func replaceFrac(s string) string {
	for {
		idx := strings.Index(s, `\frac{`)
		if idx < 0 {
			idx = strings.Index(s, `\dfrac{`)
			if idx < 0 {
				return s
			}
		}
		open := strings.Index(s[idx:], "{") + idx
		num, end, ok := readGroup(s, open)
		if !ok || end >= len(s) || s[end] != '{' {
			return s
		}
		den, end2, ok := readGroup(s, end)
		if !ok {
			return s
		}
		s = s[:idx] + wrap(num) + "/" + wrap(den) + s[end2:]
	}
}

// readGroup reads a balanced {...} group starting at s[open] == '{'. It
// returns the inner text and the index just past the closing brace.
func readGroup(s string, open int) (string, int, bool) {
	if open >= len(s) || s[open] != '{' {
		return "", 0, false
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func wrap(s string) string {
	if isAtom(s) {
		return s
	}
	return "(" + s + ")"
}

func isAtom(s string) bool {
	return len([]rune(strings.TrimSpace(s))) <= 1 || !strings.ContainsAny(s, " +-*/")
}

// replaceScripts rewrites ^x, ^{xy}, _x and _{xy}. Groups that cannot be
// expressed with Unicode script characters fall back to ^(..) or _(..).
func replaceScripts(s string, marker byte, table map[rune]rune) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != marker || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}

		var arg string
		next := i + 2
		if s[i+1] == '{' {
			inner, end, ok := readGroup(s, i+1)
			if !ok {
				b.WriteByte(s[i])
				continue
			}
			arg, next = inner, end
		} else {
			r := []rune(s[i+1:])[0]
			arg = string(r)
			next = i + 1 + len(string(r))
		}

		if mapped, ok := mapScript(arg, table); ok {
			b.WriteString(mapped)
		} else {
			b.WriteByte(marker)
			b.WriteString("(" + arg + ")")
		}
		i = next - 1
	}
	return b.String()
}

func mapScript(arg string, table map[rune]rune) (string, bool) {
	var b strings.Builder
	for _, r := range arg {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		b.WriteRune(m)
	}
	return b.String(), true
}
