package browser

const isFrameScript = `(el) => !!el && (el.tagName === 'IFRAME' || el.tagName === 'FRAME')`

const shadowRootScript = `(el) => el.shadowRoot`

const currentValueScript = `(el) => (el.value === undefined || el.value === null) ? '' : String(el.value)`

// setValueScript mirrors what a user edit would emit so framework bindings
// observe the change.
const setValueScript = `(el, value) => {
	el.value = value;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
}`

const textContentScript = `(el) => (el.textContent || '').trim()`

const attributeScript = `(el, name) => el.getAttribute(name)`

const inlineStyleScript = `(el, property) => el.style.getPropertyValue(property)`

const computedStyleScript = `(el) => {
	const style = window.getComputedStyle(el);
	const out = {};
	for (let i = 0; i < style.length; i++) {
		const name = style[i];
		out[name] = style.getPropertyValue(name);
	}
	return out;
}`

const scrollIntoViewScript = `(el) => el.scrollIntoView({ block: 'center', inline: 'center' })`

const scrollStepScript = `() => {
	window.scrollTo(0, document.body.scrollHeight);
	return document.body.scrollHeight;
}`

const scrollHeightScript = `() => document.body.scrollHeight`

// clickRecorderScript installs a capturing click listener that forwards a
// summary of every click to the exposed binding named by %q.
const clickRecorderScript = `(() => {
	const binding = %q;
	const flag = '__recorder_' + binding;
	if (window[flag]) {
		return;
	}
	window[flag] = true;
	document.addEventListener('click', (event) => {
		const target = event.target instanceof Element ? event.target : null;
		window[binding]({
			timestamp: Date.now(),
			x: event.clientX,
			y: event.clientY,
			target: target ? target.tagName.toLowerCase() : '',
			id: target ? target.id : '',
			className: target && typeof target.className === 'string' ? target.className : '',
		});
	}, true);
})()`
