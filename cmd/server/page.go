package main

var indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>TomPom</title>
    <style>
        body { background: #0a0a0f; color: #ddd; font-family: monospace;
               display: flex; flex-direction: column; align-items: center; }
        canvas { background: #000; border: 1px solid #333; margin-top: 2rem; }
        #hud { margin-top: 1rem; color: #888; }
    </style>
</head>
<body>
    <canvas id="court" width="640" height="480"></canvas>
    <div id="hud">connecting...</div>
    <script>
        const canvas = document.getElementById('court');
        const ctx = canvas.getContext('2d');
        const hud = document.getElementById('hud');
        const keys = { up: false, down: false };
        let role = 'spectator';

        const ws = new WebSocket('ws://' + location.hostname + ':8765/ws');

        ws.onmessage = (ev) => {
            let msg;
            try { msg = JSON.parse(ev.data); } catch { return; }
            if (msg.type === 'role') {
                role = msg.role;
                hud.textContent = 'you are: ' + role + ' (W/S to move, R to reset, +/- speed)';
            } else if (msg.type === 'state') {
                draw(msg.state);
            }
        };

        function draw(s) {
            canvas.width = s.width; canvas.height = s.height;
            ctx.fillStyle = '#000';
            ctx.fillRect(0, 0, s.width, s.height);
            ctx.fillStyle = '#ddd';
            ctx.fillRect(0, s.left_y, s.paddle_w, s.paddle_h);
            ctx.fillRect(s.width - s.paddle_w, s.right_y, s.paddle_w, s.paddle_h);
            ctx.fillRect(s.ball_x, s.ball_y, s.ball_size, s.ball_size);
            ctx.font = '24px monospace';
            ctx.fillText(s.score_left + ' : ' + s.score_right, s.width / 2 - 30, 30);
            if (s.game_over) {
                ctx.fillText(s.winner + ' wins! press R', s.width / 2 - 100, s.height / 2);
            }
        }

        function sendInput() {
            if (ws.readyState !== WebSocket.OPEN) return;
            ws.send(JSON.stringify({ type: 'input', up: keys.up, down: keys.down }));
        }

        document.addEventListener('keydown', (ev) => {
            if (ev.key === 'w' || ev.key === 'ArrowUp') { keys.up = true; sendInput(); }
            if (ev.key === 's' || ev.key === 'ArrowDown') { keys.down = true; sendInput(); }
            if (ev.key === 'r') ws.send(JSON.stringify({ type: 'reset' }));
            if (ev.key === '+') ws.send(JSON.stringify({ type: 'speed', delta: 1 }));
            if (ev.key === '-') ws.send(JSON.stringify({ type: 'speed', delta: -1 }));
        });
        document.addEventListener('keyup', (ev) => {
            if (ev.key === 'w' || ev.key === 'ArrowUp') { keys.up = false; sendInput(); }
            if (ev.key === 's' || ev.key === 'ArrowDown') { keys.down = false; sendInput(); }
        });
    </script>
</body>
</html>
`
