package logo

import (
	"strings"
)

// The core primitive set. The engine's contract with its library is the
// registration table, so everything here goes through Register exactly the
// way an external library of primitives would; the evaluator has no special
// knowledge of any of these beyond the Result kinds they return.

func registerCore(in *Interp) {
	// control
	in.Register("stop", 0, primStop)
	in.Register("output", 1, primOutput)
	in.Register("op", 1, primOutput)
	in.Register("repeat", 2, primRepeat)
	in.Register("if", 2, primIf)
	in.Register("ifelse", 3, primIfElse)
	in.Register("run", 1, primRun)
	in.Register("test", 1, primTest)
	in.Register("iftrue", 1, primIfTrue)
	in.Register("ift", 1, primIfTrue)
	in.Register("iffalse", 1, primIfFalse)
	in.Register("iff", 1, primIfFalse)
	in.Register("catch", 2, primCatch)
	in.Register("throw", 1, primThrow)
	in.Register("goto", 1, primGoto)
	in.Register("tag", 1, primTag)
	in.Register("pause", 0, primPause)
	in.Register("bye", 0, primBye)

	// arithmetic
	in.Register("sum", 2, primSum)
	in.Register("difference", 2, primDifference)
	in.Register("product", 2, primProduct)
	in.Register("quotient", 2, primQuotient)
	in.Register("remainder", 2, primRemainder)
	in.Register("minus", 1, primMinus)
	in.Register("random", 1, primRandom)

	// predicates
	in.Register("equalp", 2, primEqualp)
	in.Register("lessp", 2, primLessp)
	in.Register("greaterp", 2, primGreaterp)
	in.Register("emptyp", 1, primEmptyp)
	in.Register("numberp", 1, primNumberp)
	in.Register("wordp", 1, primWordp)
	in.Register("listp", 1, primListp)

	// words and lists
	in.Register("first", 1, primFirst)
	in.Register("butfirst", 1, primButfirst)
	in.Register("bf", 1, primButfirst)
	in.Register("fput", 2, primFput)
	in.Register("count", 1, primCount)
	in.Register("word", 2, primWord)
	in.Register("list", 2, primList)

	// variables
	in.Register("make", 2, primMake)
	in.Register("thing", 1, primThing)
	in.Register("local", 1, primLocal)

	// console and devices
	in.Register("print", 1, primPrint)
	in.Register("pr", 1, primPrint)
	in.Register("type", 1, primType)
	in.Register("show", 1, primShow)
	in.Register("wait", 1, primWait)
	in.Register("battery", 0, primBattery)

	// workspace
	in.Register("erase", 1, primErase)
	in.Register("trace", 1, primTrace)
	in.Register("untrace", 1, primUntrace)
	in.Register("step", 1, primStep)
	in.Register("unstep", 1, primUnstep)
}

func needNumber(in *Interp, name string, v Value) (float32, Result) {
	if f, ok := in.toNumber(v); ok {
		return f, None()
	}
	return 0, Failf(ErrDoesntLike, name, FormatValue(in.store, v))
}

func needWord(in *Interp, name string, v Value) (string, Result) {
	if v.Kind == KindWord {
		return in.store.WordText(v.Node), None()
	}
	return "", Failf(ErrDoesntLike, name, FormatValue(in.store, v))
}

func needList(in *Interp, name string, v Value) (Node, Result) {
	if v.Kind == KindList {
		return v.Node, None()
	}
	return Nil, Failf(ErrDoesntLike, name, FormatValue(in.store, v))
}

//// control

func primStop(in *Interp, args []Value) Result {
	if in.frames.depth() == 0 {
		return Failf(ErrNotInProcedure, "stop", "")
	}
	return Stop()
}

func primOutput(in *Interp, args []Value) Result {
	if in.frames.depth() == 0 {
		return Failf(ErrNotInProcedure, "output", "")
	}
	return Output(args[0])
}

func primRepeat(in *Interp, args []Value) Result {
	n, res := needNumber(in, "repeat", args[0])
	if res.abnormal() {
		return res
	}
	list, res := needList(in, "repeat", args[1])
	if res.abnormal() {
		return res
	}
	// one reader rewound per iteration, so the collector tracks a single
	// root for the whole loop
	lr := in.newListReader(list)
	defer lr.close()
	for i := 0; i < int(n); i++ {
		lr.restore(list)
		if res := in.runSource(lr, nil); res.abnormal() {
			return res
		}
	}
	return None()
}

func primIf(in *Interp, args []Value) Result {
	cond, err := in.truth(args[0], "if")
	if err != nil {
		return Fail(err)
	}
	list, res := needList(in, "if", args[1])
	if res.abnormal() {
		return res
	}
	if cond {
		return in.RunList(list)
	}
	return None()
}

func primIfElse(in *Interp, args []Value) Result {
	cond, err := in.truth(args[0], "ifelse")
	if err != nil {
		return Fail(err)
	}
	which := 2
	if cond {
		which = 1
	}
	list, res := needList(in, "ifelse", args[which])
	if res.abnormal() {
		return res
	}
	return in.RunList(list)
}

func primRun(in *Interp, args []Value) Result {
	list, res := needList(in, "run", args[0])
	if res.abnormal() {
		return res
	}
	return in.RunList(list)
}

func primTest(in *Interp, args []Value) Result {
	cond, err := in.truth(args[0], "test")
	if err != nil {
		return Fail(err)
	}
	in.setTest(cond)
	return None()
}

func primIfTrue(in *Interp, args []Value) Result  { return runOnTest(in, "iftrue", args[0], true) }
func primIfFalse(in *Interp, args []Value) Result { return runOnTest(in, "iffalse", args[0], false) }

func runOnTest(in *Interp, name string, arg Value, want bool) Result {
	list, res := needList(in, name, arg)
	if res.abnormal() {
		return res
	}
	if val, ok := in.testValue(); ok && val == want {
		return in.RunList(list)
	}
	return None()
}

// primCatch runs its list; a THROW with a matching tag stops here. The tag
// "error" additionally catches reported errors, turning them into silence.
func primCatch(in *Interp, args []Value) Result {
	tag, res := needWord(in, "catch", args[0])
	if res.abnormal() {
		return res
	}
	list, res := needList(in, "catch", args[1])
	if res.abnormal() {
		return res
	}
	res = in.RunList(list)
	switch res.Kind {
	case ResThrow:
		if strings.EqualFold(res.Tag, tag) {
			return None()
		}
	case ResError:
		if strings.EqualFold(tag, "error") {
			return None()
		}
	}
	return res
}

func primThrow(in *Interp, args []Value) Result {
	tag, res := needWord(in, "throw", args[0])
	if res.abnormal() {
		return res
	}
	return Throw(tag)
}

func primGoto(in *Interp, args []Value) Result {
	if in.frames.depth() == 0 {
		return Failf(ErrNotInProcedure, "goto", "")
	}
	label, res := needWord(in, "goto", args[0])
	if res.abnormal() {
		return res
	}
	return Goto(label)
}

// primTag is a no-op at execution time; GOTO searches for it structurally.
func primTag(in *Interp, args []Value) Result { return None() }

func primBye(in *Interp, args []Value) Result { return Eof() }

//// arithmetic

func primSum(in *Interp, args []Value) Result {
	var total float32
	for _, arg := range args {
		f, res := needNumber(in, "sum", arg)
		if res.abnormal() {
			return res
		}
		total += f
	}
	return Ok(NumberVal(total))
}

func primDifference(in *Interp, args []Value) Result {
	a, res := needNumber(in, "difference", args[0])
	if res.abnormal() {
		return res
	}
	b, res := needNumber(in, "difference", args[1])
	if res.abnormal() {
		return res
	}
	return Ok(NumberVal(a - b))
}

func primProduct(in *Interp, args []Value) Result {
	total := float32(1)
	for _, arg := range args {
		f, res := needNumber(in, "product", arg)
		if res.abnormal() {
			return res
		}
		total *= f
	}
	return Ok(NumberVal(total))
}

func primQuotient(in *Interp, args []Value) Result {
	a, res := needNumber(in, "quotient", args[0])
	if res.abnormal() {
		return res
	}
	b, res := needNumber(in, "quotient", args[1])
	if res.abnormal() {
		return res
	}
	if b == 0 {
		return Failf(ErrDivideByZero, "quotient", "")
	}
	return Ok(NumberVal(a / b))
}

func primRemainder(in *Interp, args []Value) Result {
	a, res := needNumber(in, "remainder", args[0])
	if res.abnormal() {
		return res
	}
	b, res := needNumber(in, "remainder", args[1])
	if res.abnormal() {
		return res
	}
	if b == 0 {
		return Failf(ErrDivideByZero, "remainder", "")
	}
	return Ok(NumberVal(float32(int32(a) % int32(b))))
}

func primMinus(in *Interp, args []Value) Result {
	f, res := needNumber(in, "minus", args[0])
	if res.abnormal() {
		return res
	}
	return Ok(NumberVal(-f))
}

func primRandom(in *Interp, args []Value) Result {
	f, res := needNumber(in, "random", args[0])
	if res.abnormal() {
		return res
	}
	n := int(f)
	if n <= 0 {
		return Failf(ErrDoesntLike, "random", FormatValue(in.store, args[0]))
	}
	return Ok(NumberVal(float32(in.devices.Random() % uint32(n))))
}

//// predicates

func primEqualp(in *Interp, args []Value) Result {
	return Ok(in.boolValue(in.valuesEqual(args[0], args[1])))
}

func (in *Interp) valuesEqual(a, b Value) bool {
	if x, ok := in.toNumber(a); ok {
		if y, ok := in.toNumber(b); ok {
			return x == y
		}
		return false
	}
	if a.Kind == KindWord && b.Kind == KindWord {
		return a.Node == b.Node // interned, case-insensitive
	}
	if a.Kind == KindList && b.Kind == KindList {
		return in.listsEqual(a.Node, b.Node)
	}
	return false
}

func (in *Interp) listsEqual(a, b Node) bool {
	for a.IsList() && b.IsList() {
		ca, cb := in.store.Car(a), in.store.Cdr(a)
		da, db := in.store.Car(b), in.store.Cdr(b)
		if !in.nodesEqual(ca, da) {
			return false
		}
		a, b = cb, db
	}
	return a.IsNil() && b.IsNil()
}

func (in *Interp) nodesEqual(a, b Node) bool {
	if a.IsList() || b.IsList() {
		return a.Kind() == b.Kind() && in.listsEqual(a, b)
	}
	return a == b
}

func primLessp(in *Interp, args []Value) Result    { return comparePrim(in, "lessp", args, -1) }
func primGreaterp(in *Interp, args []Value) Result { return comparePrim(in, "greaterp", args, 1) }

func comparePrim(in *Interp, name string, args []Value, want int) Result {
	a, res := needNumber(in, name, args[0])
	if res.abnormal() {
		return res
	}
	b, res := needNumber(in, name, args[1])
	if res.abnormal() {
		return res
	}
	switch want {
	case -1:
		return Ok(in.boolValue(a < b))
	default:
		return Ok(in.boolValue(a > b))
	}
}

func primEmptyp(in *Interp, args []Value) Result {
	switch args[0].Kind {
	case KindWord:
		return Ok(in.boolValue(in.store.WordText(args[0].Node) == ""))
	case KindList:
		return Ok(in.boolValue(args[0].Node.IsNil()))
	}
	return Ok(in.falseValue())
}

func primNumberp(in *Interp, args []Value) Result {
	_, ok := in.toNumber(args[0])
	return Ok(in.boolValue(ok))
}

func primWordp(in *Interp, args []Value) Result {
	return Ok(in.boolValue(args[0].Kind == KindWord || args[0].Kind == KindNumber))
}

func primListp(in *Interp, args []Value) Result {
	return Ok(in.boolValue(args[0].Kind == KindList))
}

//// words and lists

// valueNode stores a value into list structure: numbers intern their
// shortest spelling, which is how the engine keeps cells at 32 bits.
func (in *Interp) valueNode(v Value) (Node, *Error) {
	switch v.Kind {
	case KindWord, KindList:
		return v.Node, nil
	case KindNumber:
		return in.intern(formatNumber(v.Num))
	}
	return Nil, &Error{Code: ErrDoesntLike, Arg: "nothing"}
}

func nodeValue(n Node) Value {
	if n.IsWord() {
		return WordVal(n)
	}
	return ListVal(n)
}

func primFirst(in *Interp, args []Value) Result {
	switch args[0].Kind {
	case KindList:
		if args[0].Node.IsNil() {
			return Failf(ErrDoesntLike, "first", "[]")
		}
		return Ok(nodeValue(in.store.Car(args[0].Node)))
	case KindWord, KindNumber:
		text := FormatValue(in.store, args[0])
		if text == "" {
			return Failf(ErrDoesntLike, "first", FormatValue(in.store, args[0]))
		}
		n, err := in.intern(text[:1])
		if err != nil {
			return Fail(err)
		}
		return Ok(WordVal(n))
	}
	return Failf(ErrDoesntLike, "first", FormatValue(in.store, args[0]))
}

func primButfirst(in *Interp, args []Value) Result {
	switch args[0].Kind {
	case KindList:
		if args[0].Node.IsNil() {
			return Failf(ErrDoesntLike, "butfirst", "[]")
		}
		return Ok(ListVal(in.store.Cdr(args[0].Node)))
	case KindWord, KindNumber:
		text := FormatValue(in.store, args[0])
		if text == "" {
			return Failf(ErrDoesntLike, "butfirst", FormatValue(in.store, args[0]))
		}
		n, err := in.intern(text[1:])
		if err != nil {
			return Fail(err)
		}
		return Ok(WordVal(n))
	}
	return Failf(ErrDoesntLike, "butfirst", FormatValue(in.store, args[0]))
}

func primFput(in *Interp, args []Value) Result {
	tail, res := needList(in, "fput", args[1])
	if res.abnormal() {
		return res
	}
	head, err := in.valueNode(args[0])
	if err != nil {
		return Fail(err)
	}
	cell, err := in.cons(head, tail)
	if err != nil {
		return Fail(err)
	}
	return Ok(ListVal(cell))
}

func primCount(in *Interp, args []Value) Result {
	switch args[0].Kind {
	case KindList:
		return Ok(NumberVal(float32(in.store.ListLen(args[0].Node))))
	case KindWord, KindNumber:
		return Ok(NumberVal(float32(len(FormatValue(in.store, args[0])))))
	}
	return Failf(ErrDoesntLike, "count", FormatValue(in.store, args[0]))
}

func primWord(in *Interp, args []Value) Result {
	var sb strings.Builder
	for _, arg := range args {
		switch arg.Kind {
		case KindWord, KindNumber:
			sb.WriteString(FormatValue(in.store, arg))
		default:
			return Failf(ErrDoesntLike, "word", FormatValue(in.store, arg))
		}
	}
	n, err := in.intern(sb.String())
	if err != nil {
		return Fail(err)
	}
	return Ok(WordVal(n))
}

func primList(in *Interp, args []Value) Result {
	lb, err := in.newListBuilder()
	if err != nil {
		return Fail(err)
	}
	defer lb.close()
	for _, arg := range args {
		n, err := in.valueNode(arg)
		if err != nil {
			return Fail(err)
		}
		if err := lb.appendNode(n); err != nil {
			return Fail(err)
		}
	}
	return Ok(ListVal(lb.done()))
}

//// variables

func primMake(in *Interp, args []Value) Result {
	name, res := needWord(in, "make", args[0])
	if res.abnormal() {
		return res
	}
	n, err := in.intern(name)
	if err != nil {
		return Fail(err)
	}
	in.setVar(n, args[1])
	return None()
}

func primThing(in *Interp, args []Value) Result {
	name, res := needWord(in, "thing", args[0])
	if res.abnormal() {
		return res
	}
	n, err := in.intern(name)
	if err != nil {
		return Fail(err)
	}
	if v, ok := in.lookupVar(n); ok {
		return Ok(v)
	}
	return Failf(ErrNoValue, name, "")
}

func primLocal(in *Interp, args []Value) Result {
	name, res := needWord(in, "local", args[0])
	if res.abnormal() {
		return res
	}
	n, err := in.intern(name)
	if err != nil {
		return Fail(err)
	}
	if err := in.frames.bindLocal(n, Value{}); err != nil {
		return Fail(err)
	}
	return None()
}

//// console and devices

func primPrint(in *Interp, args []Value) Result {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(FormatValue(in.store, arg))
	}
	sb.WriteByte('\n')
	return in.consoleWrite(sb.String())
}

func primType(in *Interp, args []Value) Result {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(FormatValue(in.store, arg))
	}
	return in.consoleWrite(sb.String())
}

func primShow(in *Interp, args []Value) Result {
	return in.consoleWrite(ShowValue(in.store, args[0]) + "\n")
}

func primWait(in *Interp, args []Value) Result {
	f, res := needNumber(in, "wait", args[0])
	if res.abnormal() {
		return res
	}
	if f < 0 {
		return Failf(ErrDoesntLike, "wait", FormatValue(in.store, args[0]))
	}
	in.devices.Sleep(int(f * 1000 / 60)) // WAIT counts sixtieths of a second
	return None()
}

func primBattery(in *Interp, args []Value) Result {
	return Ok(NumberVal(float32(in.devices.BatteryMillivolts())))
}

//// workspace

func primErase(in *Interp, args []Value) Result {
	name, res := needWord(in, "erase", args[0])
	if res.abnormal() {
		return res
	}
	if !in.EraseProc(name, false) {
		return Failf(ErrDontKnowHow, name, "")
	}
	return None()
}

func primTrace(in *Interp, args []Value) Result {
	return setProcFlag(in, "trace", args[0], func(p *Procedure) { p.SetTraced(true) })
}

func primUntrace(in *Interp, args []Value) Result {
	return setProcFlag(in, "untrace", args[0], func(p *Procedure) { p.SetTraced(false) })
}

func primStep(in *Interp, args []Value) Result {
	return setProcFlag(in, "step", args[0], func(p *Procedure) { p.SetStepped(true) })
}

func primUnstep(in *Interp, args []Value) Result {
	return setProcFlag(in, "unstep", args[0], func(p *Procedure) { p.SetStepped(false) })
}

func setProcFlag(in *Interp, prim string, arg Value, set func(*Procedure)) Result {
	name, res := needWord(in, prim, arg)
	if res.abnormal() {
		return res
	}
	p := in.Proc(name)
	if p == nil {
		return Failf(ErrDontKnowHow, name, "")
	}
	set(p)
	return None()
}
