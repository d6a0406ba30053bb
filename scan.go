package logo

// scanner lexes a line of source text. Bracketed lists are built eagerly
// into store nodes, so the rest of the engine only ever sees complete
// sublists riding on a tkLeftBracket token.
type scanner struct {
	in   *Interp
	src  string
	pos  int
	prev tokenKind

	pending *token
	perr    *Error
}

func (in *Interp) newScanner(src string) *scanner {
	return &scanner{in: in, src: src}
}

func (sc *scanner) peek() (token, *Error) {
	if sc.pending == nil {
		tok, err := sc.scan()
		sc.pending, sc.perr = &tok, err
	}
	return *sc.pending, sc.perr
}

func (sc *scanner) next() (token, *Error) {
	if sc.pending != nil {
		tok, err := *sc.pending, sc.perr
		sc.pending, sc.perr = nil, nil
		return tok, err
	}
	return sc.scan()
}

func (sc *scanner) scan() (token, *Error) {
	tok, err := sc.scanRaw()
	sc.prev = tok.kind
	return tok, err
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		if c == ';' { // comment runs to end of line
			sc.pos = len(sc.src)
			return
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		sc.pos++
	}
}

func (sc *scanner) scanRaw() (token, *Error) {
	sc.skipSpace()
	if sc.pos >= len(sc.src) {
		return token{kind: tkEOF}, nil
	}
	c := sc.src[sc.pos]
	switch c {
	case '[':
		sc.pos++
		list, err := sc.scanList()
		if err != nil {
			return token{}, err
		}
		return token{kind: tkLeftBracket, list: list}, nil
	case ']':
		sc.pos++
		return token{kind: tkRightBracket, text: "]"}, nil
	case '(':
		sc.pos++
		return token{kind: tkLeftParen, text: "("}, nil
	case ')':
		sc.pos++
		return token{kind: tkRightParen, text: ")"}, nil
	case '+':
		sc.pos++
		return token{kind: tkPlus, text: "+"}, nil
	case '*':
		sc.pos++
		return token{kind: tkStar, text: "*"}, nil
	case '/':
		sc.pos++
		return token{kind: tkSlash, text: "/"}, nil
	case '=':
		sc.pos++
		return token{kind: tkEquals, text: "="}, nil
	case '<':
		sc.pos++
		return token{kind: tkLess, text: "<"}, nil
	case '>':
		sc.pos++
		return token{kind: tkGreater, text: ">"}, nil
	case '-':
		return sc.scanMinus(), nil
	case '"':
		sc.pos++
		return token{kind: tkQuoted, text: sc.scanWordText()}, nil
	case ':':
		sc.pos++
		if name := sc.scanWordText(); name != "" {
			return token{kind: tkColon, text: name}, nil
		}
		return token{kind: tkWord, text: ":"}, nil
	}
	if c >= '0' && c <= '9' || c == '.' && sc.digitAt(sc.pos+1) {
		return sc.scanNumber(sc.pos), nil
	}
	text := sc.scanWordText()
	return token{kind: tkWord, text: text}, nil
}

// scanMinus decides between infix minus, a negative numeric literal, and a
// standalone negation, from the category of the preceding token.
func (sc *scanner) scanMinus() token {
	if endsValue(sc.prev) {
		sc.pos++
		return token{kind: tkMinus, text: "-"}
	}
	if sc.digitAt(sc.pos+1) || sc.pos+1 < len(sc.src) && sc.src[sc.pos+1] == '.' && sc.digitAt(sc.pos+2) {
		return sc.scanNumber(sc.pos)
	}
	sc.pos++
	return token{kind: tkUnaryMinus, text: "-"}
}

func (sc *scanner) digitAt(i int) bool {
	return i < len(sc.src) && sc.src[i] >= '0' && sc.src[i] <= '9'
}

func (sc *scanner) scanNumber(start int) token {
	pos := start
	if pos < len(sc.src) && sc.src[pos] == '-' {
		pos++
	}
	for pos < len(sc.src) && (sc.src[pos] >= '0' && sc.src[pos] <= '9' || sc.src[pos] == '.') {
		pos++
	}
	// exponent suffix: e/E with optional sign, or n/N for a negative exponent
	if pos < len(sc.src) {
		switch sc.src[pos] {
		case 'e', 'E':
			p := pos + 1
			if p < len(sc.src) && (sc.src[p] == '+' || sc.src[p] == '-') {
				p++
			}
			if sc.digitAt(p) {
				for pos = p; sc.digitAt(pos); pos++ {
				}
			}
		case 'n', 'N':
			if sc.digitAt(pos + 1) {
				for pos = pos + 1; sc.digitAt(pos); pos++ {
				}
			}
		}
	}
	text := sc.src[start:pos]
	sc.pos = pos
	if num, ok := parseNumber(text); ok {
		return token{kind: tkNumber, text: text, num: num}
	}
	return token{kind: tkWord, text: text}
}

func (sc *scanner) scanWordText() string {
	start := sc.pos
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || isDelimiterByte(c) {
			break
		}
		sc.pos++
	}
	return sc.src[start:sc.pos]
}

// scanList consumes tokens up to the matching close bracket, interning each
// one's spelling, and returns the collected list node. Nested brackets
// recurse; prefixes are kept so the list re-tokenizer can classify the
// stored words the same way the scanner classified the text.
func (sc *scanner) scanList() (Node, *Error) {
	lb, err := sc.in.newListBuilder()
	if err != nil {
		return Nil, err
	}
	defer lb.close()
	for {
		tok, err := sc.scan()
		if err != nil {
			return Nil, err
		}
		switch tok.kind {
		case tkRightBracket:
			return lb.done(), nil
		case tkEOF:
			return Nil, &Error{Code: ErrUnexpected, Proc: "["}
		case tkLeftBracket:
			if err := lb.appendNode(tok.list); err != nil {
				return Nil, err
			}
		default:
			if err := lb.appendWord(storedSpelling(tok)); err != nil {
				return Nil, err
			}
		}
	}
}

// storedSpelling is the atom text used to keep a token inside a list.
func storedSpelling(tok token) string {
	switch tok.kind {
	case tkQuoted:
		return `"` + tok.text
	case tkColon:
		return ":" + tok.text
	case tkWord, tkNumber:
		return tok.text
	}
	if s := opText(tok.kind); s != "" {
		return s
	}
	return tok.text
}
