package visibility

// snapshotScript reports the element's box, its computed style subset and
// the viewport size in one round trip.
const snapshotScript = `(el) => {
	const style = getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	return {
		rect: {
			top: rect.top,
			left: rect.left,
			bottom: rect.bottom,
			right: rect.right,
			width: rect.width,
			height: rect.height,
		},
		style: {
			visibility: style.visibility,
			display: style.display,
			opacity: style.opacity,
			position: style.position,
			zIndex: style.zIndex,
		},
		viewport: {
			width: window.innerWidth,
			height: window.innerHeight,
		},
	};
}`

// hitTestScript lists every element at the point, topmost first. Elements
// inside a shadow tree are hit-tested against their own root.
const hitTestScript = `(el, point) => {
	const root = el.getRootNode();
	const scope = typeof root.elementsFromPoint === 'function' ? root : document;
	const top = scope.elementFromPoint(point.x, point.y);
	const stack = scope.elementsFromPoint(point.x, point.y).map((node) => {
		const style = getComputedStyle(node);
		return {
			tag: node.tagName.toLowerCase(),
			id: node.id || '',
			isTarget: node === el,
			insideTarget: node !== el && el.contains(node),
			position: style.position,
			zIndex: style.zIndex,
		};
	});
	return {
		topContained: !!top && el.contains(top),
		stack: stack,
	};
}`
