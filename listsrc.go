package logo

// listReader tokenizes an in-memory list, so a compiled procedure body can
// be re-scanned without serializing it back to text. Stored words are
// classified into the same token kinds the text scanner produces; stored
// sublists surface directly on tkLeftBracket tokens. Every open reader is
// registered with the interpreter as a garbage collection root, keeping the
// structure it is iterating alive across allocation pauses.
type listReader struct {
	in   *Interp
	rest Node
	prev tokenKind

	pending *token
}

func (in *Interp) newListReader(list Node) *listReader {
	lr := &listReader{in: in, rest: list}
	in.sources = append(in.sources, lr)
	return lr
}

// close unregisters the reader. Readers close in LIFO order.
func (lr *listReader) close() {
	srcs := lr.in.sources
	for i := len(srcs) - 1; i >= 0; i-- {
		if srcs[i] == lr {
			lr.in.sources = append(srcs[:i], srcs[i+1:]...)
			return
		}
	}
}

// capture returns the cursor to the unconsumed remainder of the list.
func (lr *listReader) capture() Node { return lr.rest }

func (lr *listReader) restore(rest Node) {
	lr.rest = rest
	lr.pending = nil
	lr.prev = tkNone
}

func (lr *listReader) peek() (token, *Error) {
	if lr.pending == nil {
		tok := lr.scan()
		lr.pending = &tok
	}
	return *lr.pending, nil
}

func (lr *listReader) next() (token, *Error) {
	if lr.pending != nil {
		tok := *lr.pending
		lr.pending = nil
		return tok, nil
	}
	return lr.scan(), nil
}

func (lr *listReader) scan() token {
	if !lr.rest.IsList() {
		lr.prev = tkEOF
		return token{kind: tkEOF}
	}
	elem := lr.in.store.Car(lr.rest)
	lr.rest = lr.in.store.Cdr(lr.rest)

	var tok token
	if elem.IsWord() {
		tok = classifyWord(lr.in.store.WordText(elem), lr.prev)
	} else {
		// stored sublist, including the empty one
		tok = token{kind: tkLeftBracket, list: elem}
	}
	lr.prev = tok.kind
	return tok
}
